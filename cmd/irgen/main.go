// Command irgen synthesizes a late-reverberation impulse response and writes
// it to a mono WAV file. It plays the part of the host audio graph: the
// synthesizer's gain is applied as a sample scale and the pre-delay as
// leading silence.
//
// Usage:
//
//	irgen [flags]
//
// Examples:
//
//	irgen -rt60 1.2 -o hall.wav
//	irgen -rt60 0.4,0.5,0.7,0.9,1.1,1.0,0.8,0.5,0.3 -bandwidth 0.8 -o room.wav
//	irgen -rt60 2.5 -seed 7 -play
//	irgen -rt60 1.5 -convolve dry.wav -o wet.wav
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-latereverb/conv"
	"github.com/cwbudde/algo-latereverb/noise"
	"github.com/cwbudde/algo-latereverb/tail"
)

func main() {
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	rt60 := flag.String("rt60", "1.0", "per-band RT60 seconds: one value for all bands, or 9 comma-separated values")
	bandwidth := flag.Float64("bandwidth", 1, "band filter width in octaves")
	gain := flag.Float64("gain", 0.01, "linear output gain")
	preDelay := flag.Float64("predelay", 0.0015, "pre-delay in seconds")
	onset := flag.Float64("onset", 0.0038, "onset taper duration in seconds")
	seed := flag.Int64("seed", 0, "noise seed; 0 draws from the wall clock")
	bits := flag.Int("bits", 24, "WAV bit depth (16, 24 or 32)")
	out := flag.String("o", "ir.wav", "output WAV path")
	play := flag.Bool("play", false, "play the result instead of describing it")
	convolveIn := flag.String("convolve", "", "convolve this input WAV with the response and write the result to -o")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: irgen [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Synthesizes a multiband late-reverberation impulse response.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *bits != 16 && *bits != 24 && *bits != 32 {
		fatalf("unsupported bit depth %d", *bits)
	}

	durations, err := parseDurations(*rt60)
	if err != nil {
		fatalf("%v", err)
	}

	src := noise.NewRandom()
	if *seed != 0 {
		src = noise.New(*seed)
	}

	synth := tail.New(
		tail.WithSampleRate(*rate),
		tail.WithDurations(durations),
		tail.WithBandwidth(*bandwidth),
		tail.WithGain(*gain),
		tail.WithPreDelay(*preDelay),
		tail.WithTailOnset(*onset),
		tail.WithNoiseSource(src),
	)

	// Host-graph equivalent of the gain and delay nodes.
	response := wireGraph(synth)

	samples := response
	if *convolveIn != "" {
		samples, err = convolveFile(*convolveIn, response, synth.SampleRate())
		if err != nil {
			fatalf("%v", err)
		}
	}

	if *play {
		if err := playSamples(samples, int(synth.SampleRate())); err != nil {
			fatalf("playback failed: %v", err)
		}

		return
	}

	if err := writeWAV(*out, samples, int(synth.SampleRate()), *bits); err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("%s: %d samples at %g Hz (%.3f s)\n",
		*out, len(samples), synth.SampleRate(),
		float64(len(samples))/synth.SampleRate())
}

// parseDurations turns the -rt60 flag into a 9-element vector.
func parseDurations(s string) ([]float64, error) {
	parts := strings.Split(s, ",")

	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rt60 value %q", p)
		}

		values = append(values, v)
	}

	if len(values) == 1 {
		all := make([]float64, tail.NumBands)
		for i := range all {
			all[i] = values[0]
		}

		return all, nil
	}

	if len(values) != tail.NumBands {
		return nil, fmt.Errorf("rt60 needs 1 or %d values, got %d", tail.NumBands, len(values))
	}

	return values, nil
}

// wireGraph applies the gain and pre-delay the host graph would contribute:
// leading silence followed by the scaled tail.
func wireGraph(synth *tail.Synthesizer) []float64 {
	ir := synth.ImpulseResponse()
	pre := synth.PreDelaySamples()
	gain := synth.Gain()

	out := make([]float64, pre+len(ir))
	for i, v := range ir {
		out[pre+i] = v * gain
	}

	return out
}

// convolveFile runs the mono content of path through the convolution engine
// loaded with the response.
func convolveFile(path string, response []float64, sampleRate float64) ([]float64, error) {
	input, inRate, err := readWAV(path)
	if err != nil {
		return nil, err
	}

	if float64(inRate) != sampleRate {
		return nil, fmt.Errorf("%s is %d Hz, response is %g Hz", path, inRate, sampleRate)
	}

	engine := conv.NewEngine()
	engine.SetImpulseResponse(response, sampleRate)

	wet, err := engine.Process(input)
	if err != nil {
		return nil, err
	}

	return wet, nil
}

func writeWAV(path string, samples []float64, sampleRate, bits int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bits, 1, 1)

	scale := float64(int64(1)<<(bits-1)) - 1

	data := make([]int, len(samples))
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}

		data[i] = int(math.Round(v * scale))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bits,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return enc.Close()
}

// readWAV decodes path to mono float64 samples in [-1, 1], averaging
// channels when the file is not mono.
func readWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s is not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("%s has no channels", path)
	}

	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}

	scale := float64(int64(1) << (depth - 1))
	frames := len(buf.Data) / channels

	out := make([]float64, frames)
	for i := range out {
		sum := 0.0
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch])
		}

		out[i] = sum / float64(channels) / scale
	}

	return out, buf.Format.SampleRate, nil
}

// playSamples streams the buffer to the default audio device as mono
// float32 and blocks until playback finishes.
func playSamples(samples []float64, sampleRate int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	pcm := make([]byte, 0, len(samples)*4)
	var scratch [4]byte

	for _, v := range samples {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(float32(v)))
		pcm = append(pcm, scratch[:]...)
	}

	player := ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return player.Close()
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "irgen: "+format+"\n", args...)
	os.Exit(1)
}
