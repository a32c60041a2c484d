package models

import (
	"fmt"
	"strings"
)

// Emotion is a label produced by the classifier, always lowercase.
type Emotion string

const (
	Sad      Emotion = "sad"
	Happy    Emotion = "happy"
	Surprise Emotion = "surprise"
	Disgust  Emotion = "disgust"
	Angry    Emotion = "angry"
	Neutral  Emotion = "neutral"
	Fear     Emotion = "fear"
)

// Labels is the classifier's output table; index i is the label for score i.
var Labels = []Emotion{Sad, Happy, Surprise, Disgust, Angry, Neutral, Fear}

// DisplayEmotions are the labels accepted for playlist lookup.
var DisplayEmotions = []string{"Happy", "Sad", "Neutral", "Angry", "Surprise", "Fear"}

// LabelAt maps a model output index to its label.
func LabelAt(i int) (Emotion, error) {
	if i < 0 || i >= len(Labels) {
		return "", fmt.Errorf("label index %d out of range [0,%d)", i, len(Labels))
	}
	return Labels[i], nil
}

// Display returns the display label for e and whether e has one. Disgust has none.
func (e Emotion) Display() (string, bool) {
	if e == "" {
		return "", false
	}
	d := strings.ToUpper(string(e[:1])) + string(e[1:])
	return d, IsDisplayEmotion(d)
}

// Valid reports whether e belongs to the classifier set.
func (e Emotion) Valid() bool {
	for _, l := range Labels {
		if l == e {
			return true
		}
	}
	return false
}

// IsDisplayEmotion reports whether s is one of [DisplayEmotions]. Matching is case-sensitive.
func IsDisplayEmotion(s string) bool {
	for _, d := range DisplayEmotions {
		if d == s {
			return true
		}
	}
	return false
}
