package briefing

import (
	"fmt"
	"math"
	"strings"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// spokenTimeLayout renders instants the way they are spoken.
const spokenTimeLayout = "3:04 PM"

// Compose builds the narration from whichever sections are present. The
// section order is fixed regardless of which slots completed first; an
// absent section contributes nothing, with no placeholder text.
func Compose(b *almanac.Briefing, label string) string {
	sentences := make([]string, 0, 10)

	sentences = append(sentences, greeting(b, label))
	sentences = append(sentences,
		fmt.Sprintf("It is %s on %s.",
			b.GeneratedAt.Format(spokenTimeLayout),
			b.GeneratedAt.Format("Monday, January 2")))

	if b.Place != "" {
		sentences = append(sentences, fmt.Sprintf("You are near %s.", b.Place))
	}

	if b.Weather != nil {
		sentences = append(sentences, weatherSentence(b.Weather))
	}

	if b.Sun != nil {
		sentences = append(sentences, sunSentences(b.Sun)...)
	}

	sentences = append(sentences, tideSentences(b.Tides)...)

	if b.Air != nil {
		sentences = append(sentences,
			fmt.Sprintf("Air quality is %s, with an index of %d.", b.Air.Category, b.Air.Index))
	}

	if b.Verse != nil && b.Verse.Text != "" {
		sentences = append(sentences, verseSentence(b.Verse))
	}

	if b.Bird != nil && b.Bird.Name != "" {
		sentences = append(sentences, birdSentence(b.Bird))
	}

	return strings.Join(sentences, " ")
}

// greeting derives the salutation from the local hour and appends the alarm
// label when one is present.
func greeting(b *almanac.Briefing, label string) string {
	var part string

	switch hour := b.GeneratedAt.Hour(); {
	case hour >= 5 && hour < 12:
		part = "morning"
	case hour >= 12 && hour < 17:
		part = "afternoon"
	case hour >= 17 && hour < 21:
		part = "evening"
	default:
		part = "night"
	}

	if label != "" {
		return fmt.Sprintf("Good %s, this is your %s briefing.", part, label)
	}

	return fmt.Sprintf("Good %s.", part)
}

// weatherSentence renders the current conditions.
func weatherSentence(w *almanac.WeatherReport) string {
	sentence := fmt.Sprintf("Currently %d degrees", int(math.Round(w.TemperatureF)))

	if w.Condition != "" {
		sentence += " and " + w.Condition
	}

	if w.WindMPH > 0 {
		sentence += fmt.Sprintf(", with wind at %d miles per hour", int(math.Round(w.WindMPH)))
	}

	return sentence + "."
}

// sunSentences renders whichever solar events are defined for the day.
func sunSentences(s *almanac.SunTimes) []string {
	var sentences []string

	switch {
	case s.Sunrise != nil && s.Sunset != nil:
		sentences = append(sentences,
			fmt.Sprintf("Sunrise at %s and sunset at %s.",
				s.Sunrise.Format(spokenTimeLayout), s.Sunset.Format(spokenTimeLayout)))
	case s.Sunrise != nil:
		sentences = append(sentences, fmt.Sprintf("Sunrise at %s.", s.Sunrise.Format(spokenTimeLayout)))
	case s.Sunset != nil:
		sentences = append(sentences, fmt.Sprintf("Sunset at %s.", s.Sunset.Format(spokenTimeLayout)))
	}

	if s.CivilDawn != nil && s.CivilDusk != nil {
		sentences = append(sentences,
			fmt.Sprintf("Civil twilight runs from %s to %s.",
				s.CivilDawn.Format(spokenTimeLayout), s.CivilDusk.Format(spokenTimeLayout)))
	}

	return sentences
}

// tideSentences renders the current height and the single next extreme.
func tideSentences(events []almanac.TideEvent) []string {
	var sentences []string

	for _, event := range events {
		if event.Kind == almanac.TideCurrent {
			sentences = append(sentences,
				fmt.Sprintf("The tide is now %.1f feet.", event.HeightFeet))

			break
		}
	}

	for _, event := range events {
		if event.Kind != almanac.TideHigh && event.Kind != almanac.TideLow {
			continue
		}

		sentences = append(sentences,
			fmt.Sprintf("Next %s tide at %s, %.1f feet.",
				event.Kind, event.Time.Format(spokenTimeLayout), event.HeightFeet))

		break
	}

	return sentences
}

// verseSentence renders the verse of the day.
func verseSentence(v *almanac.Verse) string {
	if v.Reference == "" {
		return fmt.Sprintf("Verse of the day: %s", ensurePeriod(v.Text))
	}

	return fmt.Sprintf("Verse of the day, from %s: %s", v.Reference, ensurePeriod(v.Text))
}

// birdSentence renders the bird of the day.
func birdSentence(b *almanac.Bird) string {
	sentence := fmt.Sprintf("Bird of the day: the %s.", b.Name)
	if b.Fact != "" {
		sentence += " " + ensurePeriod(b.Fact)
	}

	return sentence
}

// ensurePeriod terminates a fragment so the voice engine pauses after it.
func ensurePeriod(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed
	}

	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return trimmed
	default:
		return trimmed + "."
	}
}
