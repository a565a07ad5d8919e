package entity

import (
	"strings"

	"github.com/google/uuid"
)

// UnitKind discriminates the two learnable unit families.
type UnitKind string

const (
	UnitKindVocab UnitKind = "vocab"
	UnitKindKanji UnitKind = "kanji"
)

// ParseUnitKind converts an arbitrary string into a supported UnitKind value.
func ParseUnitKind(code string) (UnitKind, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "vocab", "item", "vocabulary":
		return UnitKindVocab, nil
	case "kanji":
		return UnitKindKanji, nil
	default:
		return "", ErrInvalidUnitRef
	}
}

// UnitRef is a tagged reference to exactly one learnable unit: a vocabulary
// item or a kanji character. The tag makes the item/kanji XOR of the stored
// row unrepresentable as anything else.
type UnitRef struct {
	Kind UnitKind
	ID   uuid.UUID
}

// VocabUnit builds a reference to a vocabulary item.
func VocabUnit(id uuid.UUID) UnitRef {
	return UnitRef{Kind: UnitKindVocab, ID: id}
}

// KanjiUnit builds a reference to a kanji character.
func KanjiUnit(id uuid.UUID) UnitRef {
	return UnitRef{Kind: UnitKindKanji, ID: id}
}

// Validate checks that the reference carries a known kind and a non-nil id.
func (u UnitRef) Validate() error {
	if u.Kind != UnitKindVocab && u.Kind != UnitKindKanji {
		return ErrInvalidUnitRef
	}
	if u.ID == uuid.Nil {
		return ErrInvalidUnitRef
	}
	return nil
}

// IsVocab reports whether the reference points at a vocabulary item.
func (u UnitRef) IsVocab() bool { return u.Kind == UnitKindVocab }

// IsKanji reports whether the reference points at a kanji character.
func (u UnitRef) IsKanji() bool { return u.Kind == UnitKindKanji }
