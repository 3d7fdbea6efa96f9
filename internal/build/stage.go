// SPDX-License-Identifier: MPL-2.0

package build

import "fmt"

// Pipeline stages in transition order. StageFailed is reachable only from
// StageCompile and StageLink.
const (
	StageStart Stage = iota
	StagePrebuild
	StageCompile
	StageLink
	StagePostbuild
	StageDone
	StageFailed
)

const (
	// StatusSucceeded means the stage did its work.
	StatusSucceeded Status = "succeeded"
	// StatusSkipped means the stage had nothing to do.
	StatusSkipped Status = "skipped"
	// StatusFailed means the stage reported an error.
	StatusFailed Status = "failed"
)

type (
	// Stage is a pipeline state.
	Stage int

	// Status is the outcome of one visited stage.
	Status string

	// StageResult records one visited stage.
	StageResult struct {
		Stage  Stage
		Status Status
		Detail string
		Err    error
	}

	// Report describes a pipeline run.
	Report struct {
		// Stages lists every visited stage in order.
		Stages []StageResult
		// Final is StageDone or StageFailed.
		Final Stage
		// UpToDate is set when there was nothing to compile.
		UpToDate bool
		// Artifact is the linked output path, if any.
		Artifact string
		// Compiled lists the translation units handed to the compiler.
		Compiled []string
	}
)

var stageNames = [...]string{
	StageStart:     "start",
	StagePrebuild:  "prebuild",
	StageCompile:   "compile",
	StageLink:      "link",
	StagePostbuild: "postbuild",
	StageDone:      "done",
	StageFailed:    "failed",
}

// String returns the lower-case stage name.
func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Terminal reports whether s ends the pipeline.
func (s Stage) Terminal() bool { return s == StageDone || s == StageFailed }

// Visited reports whether the run passed through s.
func (r *Report) Visited(s Stage) bool {
	for _, sr := range r.Stages {
		if sr.Stage == s {
			return true
		}
	}
	return false
}

// Result returns the record for s, if visited.
func (r *Report) Result(s Stage) (StageResult, bool) {
	for _, sr := range r.Stages {
		if sr.Stage == s {
			return sr, true
		}
	}
	return StageResult{}, false
}

func (r *Report) record(s Stage, status Status, detail string, err error) {
	r.Stages = append(r.Stages, StageResult{Stage: s, Status: status, Detail: detail, Err: err})
}
