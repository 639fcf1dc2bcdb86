package state

import (
	"slices"
	"strings"
)

// On-disk representation of the execution state.
type record struct {
	LastBuildTime     int64               `json:"last_build_time"`
	SuccessJobs       []string            `json:"success_jobs"`
	SuccessSteps      map[string][]string `json:"success_steps"`
	SuccessBuildSteps map[string][]string `json:"success_build_steps"`
}

func newRecord() record {
	return record{
		SuccessJobs:       []string{},
		SuccessSteps:      map[string][]string{},
		SuccessBuildSteps: map[string][]string{},
	}
}

// Fills in collections missing from a decoded record.
func (r *record) normalize() {
	if r.SuccessJobs == nil {
		r.SuccessJobs = []string{}
	}
	if r.SuccessSteps == nil {
		r.SuccessSteps = map[string][]string{}
	}
	if r.SuccessBuildSteps == nil {
		r.SuccessBuildSteps = map[string][]string{}
	}
}

// Reports whether list contains v, ignoring case.
func containsFold(list []string, v string) bool {
	return slices.ContainsFunc(list, func(s string) bool {
		return strings.EqualFold(s, v)
	})
}

// Appends v to list unless it is already present.
func appendUnique(list []string, v string) []string {
	if containsFold(list, v) {
		return list
	}
	return append(list, v)
}
