package library

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PitchClasses are the twelve canonical musical keys in sharp notation.
var PitchClasses = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var pitchClassRule = func() validation.Rule {
	vals := make([]any, len(PitchClasses))
	for i, k := range PitchClasses {
		vals[i] = k
	}
	return validation.In(vals...).Error("not a pitch class")
}()

// Check runs plausibility validation on the track. Violations are returned
// as warnings, never errors: detection quality varies across tools, so
// out-of-range values pass through the conversion unchanged.
func (t *Track) Check() Warnings {
	err := validation.ValidateStruct(t,
		validation.Field(&t.BPM, validation.By(plausibleBPM)),
		validation.Field(&t.MusicalKey, pitchClassRule),
		validation.Field(&t.Bitrate, validation.Min(0)),
		validation.Field(&t.SampleRate, validation.Min(0)),
		validation.Field(&t.DurationMS, validation.Min(int64(0))),
		validation.Field(&t.FileSize, validation.Min(int64(0))),
	)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return Warnings{{Kind: WarnEntry, TrackKey: t.Key, Message: err.Error()}}
	}

	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var ws Warnings
	for _, f := range fields {
		ws.Add(Warning{
			Kind:     WarnEntry,
			TrackKey: t.Key,
			Message:  fmt.Sprintf("%s: %v", f, verrs[f]),
		})
	}
	return ws
}

func plausibleBPM(value any) error {
	bpm, _ := value.(float64)
	if bpm == 0 {
		return nil
	}
	if bpm < 30 || bpm > 300 {
		return fmt.Errorf("implausible tempo %.2f, expected 30-300", bpm)
	}
	return nil
}

// NormalizeMusicalKey maps a native tonality string onto one of the twelve
// canonical pitch classes, accepting flat aliases. It returns "" and false
// for anything it cannot map exactly; approximating (e.g. stripping a minor
// suffix) would silently change meaning.
func NormalizeMusicalKey(raw string) (string, bool) {
	if raw == "" {
		return "", true
	}
	flats := map[string]string{
		"Db": "C#", "Eb": "D#", "Gb": "F#", "Ab": "G#", "Bb": "A#",
	}
	if sharp, ok := flats[raw]; ok {
		return sharp, true
	}
	for _, k := range PitchClasses {
		if raw == k {
			return k, true
		}
	}
	return "", false
}
