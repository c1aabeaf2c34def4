package listing

import "sort"

// StatusStats summarizes live status values against the closed enum.
// Maintenance scripts use it to catch drift, e.g. a value written by
// older code that is no longer in the enum.
type StatusStats struct {
	Stats           map[Status]int `json:"stats"`
	UnknownStatuses []string       `json:"unknownStatuses"`
	Total           int            `json:"total"`
}

// GenerateStatusStats counts raw status values per canonical status.
// Values outside the enum (after legacy normalization) are collected in
// UnknownStatuses rather than dropped.
func GenerateStatusStats(raw []string) StatusStats {
	stats := StatusStats{Stats: make(map[Status]int, len(statusCatalog))}
	for _, s := range AllStatuses() {
		stats.Stats[s] = 0
	}
	seen := map[string]bool{}
	for _, v := range raw {
		stats.Total++
		s, err := Normalize(v)
		if err != nil {
			if !seen[v] {
				seen[v] = true
				stats.UnknownStatuses = append(stats.UnknownStatuses, v)
			}
			continue
		}
		stats.Stats[s]++
	}
	sort.Strings(stats.UnknownStatuses)
	return stats
}

// Drift is the result of comparing live status values with the enum.
type Drift struct {
	Missing    []Status `json:"missing"`
	Unexpected []string `json:"unexpected"`
}

// Empty reports whether no drift was detected.
func (d Drift) Empty() bool {
	return len(d.Missing) == 0 && len(d.Unexpected) == 0
}

// DetectMissingStatuses compares the set of currently observed status
// values with the closed enum. Missing lists enum statuses absent from
// the data; Unexpected lists observed values outside the enum. Running
// it over the enum's own value list yields empty arrays both ways.
func DetectMissingStatuses(current []string) Drift {
	var d Drift
	observed := make(map[Status]bool, len(current))
	seen := map[string]bool{}
	for _, v := range current {
		s, err := Normalize(v)
		if err != nil {
			if !seen[v] {
				seen[v] = true
				d.Unexpected = append(d.Unexpected, v)
			}
			continue
		}
		observed[s] = true
	}
	for _, s := range AllStatuses() {
		if !observed[s] {
			d.Missing = append(d.Missing, s)
		}
	}
	sort.Strings(d.Unexpected)
	return d
}
