package history

import (
	"strings"
	"time"
)

// UsageRecord tracks how recently and how often a user was taught a
// movement. It only ever feeds novelty scoring, never a hard constraint,
// so a lost increment under concurrent generations is acceptable.
type UsageRecord struct {
	UserID     string    `json:"userId"`
	MovementID string    `json:"movementId"`
	LastUsed   time.Time `json:"lastUsed"`
	Count      int       `json:"count"`
}

// ExclusionProfile carries a student's medical exclusion data.
type ExclusionProfile struct {
	StudentProfileID  string   `json:"studentProfileId"`
	IsPregnant        bool     `json:"isPregnant"`
	Contraindications []string `json:"contraindications"`
	AvoidList         []string `json:"avoidList"`
}

// BlocksGeneration reports whether the profile forbids class generation
// entirely. Pregnancy is absolute and not filterable.
func (p *ExclusionProfile) BlocksGeneration() bool {
	if p == nil {
		return false
	}
	if p.IsPregnant {
		return true
	}
	for _, tag := range p.Contraindications {
		if strings.EqualFold(strings.TrimSpace(tag), "pregnancy") {
			return true
		}
	}
	return false
}

// Avoided returns the avoid-list as a set for candidate filtering.
func (p *ExclusionProfile) Avoided() map[string]bool {
	if p == nil {
		return nil
	}
	avoided := make(map[string]bool, len(p.AvoidList))
	for _, id := range p.AvoidList {
		avoided[id] = true
	}
	return avoided
}
