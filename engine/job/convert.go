package job

import (
	"github.com/fieldnet/fieldnet/engine/core"
)

var statusLabels = map[Status]string{
	StatusCreated:   "Created",
	StatusQueued:    "Queued",
	StatusPending:   "Pending",
	StatusStarted:   "Started",
	StatusRunning:   "Running",
	StatusRetry:     "Retrying",
	StatusCanceling: "Canceling",
	StatusRevoked:   "Canceled",
	StatusSuccess:   "Done",
	StatusFailure:   "Failed",
}

func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Active reports whether the job is queued or executing.
func (s Status) Active() bool {
	switch s {
	case StatusQueued, StatusPending, StatusStarted, StatusRunning, StatusRetry:
		return true
	}
	return false
}

// Final reports whether the job has stopped for good.
func (s Status) Final() bool {
	switch s {
	case StatusSuccess, StatusFailure, StatusRevoked:
		return true
	}
	return false
}

func Convert(r Record) Job {
	status := Status(r.Status)
	started, finished := r.StartedAt.Ptr(), r.FinishedAt.Ptr()
	j := Job{
		ID:             r.ID,
		Name:           r.Name,
		Status:         status,
		Progress:       r.Progress,
		ProjectID:      core.RefID(r.Project),
		DeploymentID:   core.RefID(r.Deployment),
		DeploymentName: core.RefName(r.Deployment),
		PipelineID:     core.RefID(r.Pipeline),
		PipelineName:   core.RefName(r.Pipeline),
		CollectionID:   core.RefID(r.SourceImageCollection),
		CreatedAt:      r.CreatedAt.Ptr(),
		StartedAt:      started,
		FinishedAt:     finished,
		StatusLabel:    status.Label(),
		CanStart:       status == StatusCreated,
		CanCancel:      status.Active(),
		CanRetry:       status == StatusFailure || status == StatusRevoked,
	}
	if r.Progress != nil {
		j.ProgressLabel = core.FormatPercent(*r.Progress)
	}
	if started != nil && finished != nil {
		j.ElapsedLabel = core.FormatDuration(finished.Sub(*started))
	}
	return j
}
