package vocal_test

import (
	"fmt"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
	"github.com/cwbudde/vocal-transformer/vocal"
)

func ExamplePipeline() {
	p, err := vocal.New()
	if err != nil {
		panic(err)
	}
	if err := p.Prepare(core.NewProcessSpec(core.WithSampleRate(48000), core.WithNumChannels(1))); err != nil {
		panic(err)
	}

	store := p.Store()
	_ = store.SetCharacter(vocal.Giant)

	b := buffer.New(1, 256)
	if err := p.Process(b); err != nil {
		panic(err)
	}

	snap := store.Snapshot()
	fmt.Printf("%s pitch=%.0f formant=%.1f reverb=%.1f\n",
		snap.Character, snap.PitchSemitones, snap.FormantShift, snap.ReverbWet)
	// Output: Giant pitch=-6 formant=0.2 reverb=0.5
}

func ExampleBlend() {
	target, _ := vocal.Choir.Preset()
	current := vocal.Preset{PitchShift: 4, FormantShift: 0.5, VoiceCount: 1}

	half := vocal.Blend(current, target, 0.5)
	fmt.Printf("pitch=%.1f voices=%d detune=%.2f reverb=%.2f\n",
		half.PitchShift, half.VoiceCount, half.Detune, half.Reverb)
	// Output: pitch=2.0 voices=2 detune=0.20 reverb=0.40
}

func ExampleParseCharacter() {
	c, err := vocal.ParseCharacter("alien")
	if err != nil {
		panic(err)
	}
	p, _ := c.Preset()
	fmt.Println(int(c), c, p.VoiceCount)
	// Output: 2 Alien 2
}
