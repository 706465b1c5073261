package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Formation controls how many groups a week yields.
type Formation string

const (
	// FormationSingle produces exactly one group of GroupSize people per week.
	FormationSingle Formation = "single"
	// FormationMultiple partitions the whole available roster into
	// consecutive groups of GroupSize per week.
	FormationMultiple Formation = "multiple"
)

// ParseFormation parses a formation string. An empty string defaults to
// FormationMultiple.
func ParseFormation(s string) (Formation, error) {
	switch s {
	case "":
		return FormationMultiple, nil
	case string(FormationSingle):
		return FormationSingle, nil
	case string(FormationMultiple):
		return FormationMultiple, nil
	default:
		return "", fmt.Errorf("%w: unknown formation %q", ErrInvalidInput, s)
	}
}

// Assignment is one persisted group row: a single group on one Friday
// of a month. Members are stored as a serialized JSON array of names.
type Assignment struct {
	ID         string    `db:"id"`
	Month      string    `db:"month"` // YYYY-MM
	GroupSize  int       `db:"group_size"`
	Formation  Formation `db:"formation"`
	WeekNumber int       `db:"week_number"` // 1-based within the month
	Date       string    `db:"friday"`      // YYYY-MM-DD
	Members    string    `db:"members"`     // JSON array of names
	GroupIndex int       `db:"group_index"` // 1-based within the week
}

// Week is one week of a month's schedule: the Friday date and its groups.
type Week struct {
	Date       string     `json:"date"`
	WeekNumber int        `json:"weekNumber"`
	Groups     [][]string `json:"groups"`
}

// MonthSchedule is the resolved schedule for a month.
type MonthSchedule struct {
	Month     string    `json:"month"`
	Formation Formation `json:"formation"`
	GroupSize int       `json:"groupSize"`
	Weeks     []Week    `json:"weekGroups"`
}

// EditGroupRequest is the request body for replacing one group's members.
type EditGroupRequest struct {
	Date       string   `json:"date"`
	GroupIndex int      `json:"groupIndex"`
	Members    []string `json:"members"`
}

// EncodeMembers serializes a member list for storage.
func EncodeMembers(members []string) string {
	b, _ := json.Marshal(members)
	return string(b)
}

// DecodeMembers deserializes a stored member list. A value that does not
// decode as a JSON string array is treated as a single-member group
// containing the raw stored text.
func DecodeMembers(raw string) []string {
	var members []string
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		return []string{raw}
	}
	return members
}

// PreviousMonth returns the YYYY-MM month immediately before the given one.
func PreviousMonth(month string) (string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", fmt.Errorf("%w: invalid month %q", ErrInvalidInput, month)
	}
	return t.AddDate(0, -1, 0).Format("2006-01"), nil
}
