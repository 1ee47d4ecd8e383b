package domain

import (
	"strconv"
	"strings"
)

// Settings are the organization-level preferences stored in the
// database. They are editable at runtime, unlike process configuration.
type Settings struct {
	TestMode         bool
	OrganizationSlug string
	ClientID         string
	ClientSecret     string
	InactiveTierIDs  []int
}

// Complete reports whether payments can proceed, naming the first
// missing field otherwise.
func (s Settings) Complete() (bool, string) {
	switch {
	case s.OrganizationSlug == "":
		return false, "organization slug"
	case s.ClientID == "":
		return false, "client id"
	case s.ClientSecret == "":
		return false, "client secret"
	}
	return true, ""
}

// TierInactive reports whether the given tier id has been disabled by
// the operator.
func (s Settings) TierInactive(id int) bool {
	for _, inactive := range s.InactiveTierIDs {
		if inactive == id {
			return true
		}
	}
	return false
}

// ParseInactiveTierIDs parses the comma-delimited persisted form.
// Blank segments are skipped; a non-numeric segment fails the whole
// parse so a corrupted row is noticed instead of silently reactivating
// tiers.
func ParseInactiveTierIDs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FormatInactiveTierIDs renders ids in the persisted comma-delimited
// form.
func FormatInactiveTierIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
