package entity

import "strings"

// Skill represents one learning modality tracked independently per unit.
type Skill string

const (
	SkillUnspecified Skill = ""
	SkillRead        Skill = "read"
	SkillWrite       Skill = "write"
	SkillListen      Skill = "listen"
	SkillSpeak       Skill = "speak"
)

// DefaultSkill is used when a caller does not specify a skill.
const DefaultSkill = SkillRead

// Code returns the lowercase skill code (without defaulting).
func (s Skill) Code() string {
	return strings.TrimSpace(string(s))
}

// Valid reports whether the skill is one of the supported modalities.
func (s Skill) Valid() bool {
	switch s {
	case SkillRead, SkillWrite, SkillListen, SkillSpeak:
		return true
	default:
		return false
	}
}

// ParseSkill converts an arbitrary string into a supported Skill value.
func ParseSkill(code string) (Skill, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "read", "reading":
		return SkillRead, nil
	case "write", "writing":
		return SkillWrite, nil
	case "listen", "listening":
		return SkillListen, nil
	case "speak", "speaking":
		return SkillSpeak, nil
	case "":
		return SkillUnspecified, nil
	default:
		return SkillUnspecified, ErrInvalidSkill
	}
}

// NormalizeSkill ensures the skill falls back to a supported value.
func NormalizeSkill(s Skill) Skill {
	if s.Valid() {
		return s
	}
	return DefaultSkill
}
