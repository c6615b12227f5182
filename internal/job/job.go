// Package job provides the VideoJob aggregate for visualization runs.
// It includes the job entity with its status state machine and repository
// interfaces for persistence.
package job

import (
	"errors"
	"sync"
	"time"

	"github.com/musevid/musevid/internal/job/id"
	"github.com/musevid/musevid/internal/render"
)

// Status represents the current state of a VideoJob.
type Status string

const (
	// StatusQueued indicates the job is waiting its turn in the batch.
	StatusQueued Status = "QUEUED"
	// StatusRunning indicates the job is extracting, rendering or muxing.
	StatusRunning Status = "RUNNING"
	// StatusCompleted indicates the final video was produced.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the job encountered an error.
	StatusFailed Status = "FAILED"
	// StatusCancelled indicates the batch was stopped before this job ran.
	StatusCancelled Status = "CANCELLED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed.
var validTransitions = map[Status][]Status{
	StatusQueued:    {StatusRunning, StatusCancelled},
	StatusRunning:   {StatusCompleted, StatusFailed},
	StatusCompleted: {},
	StatusFailed:    {},
	StatusCancelled: {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// VideoJob represents one audio-to-visualization run. A job is created per
// input file and owns no state shared with other jobs in the batch.
type VideoJob struct {
	mu sync.RWMutex

	// ID is the unique identifier for this job.
	ID string
	// Status is the current job state.
	Status Status
	// Progress is the percentage of completion (0-100).
	Progress int
	// Error contains any error message if the job failed.
	Error string
	// InputAudioPath is the source audio file.
	InputAudioPath string
	// OutputVideoPath is the final deliverable container.
	OutputVideoPath string
	// Style is the rendering configuration snapshot, fixed at creation.
	Style render.StyleConfig
	// TotalFrames is the video frame count, known after extraction.
	TotalFrames int
	// VideoURL is the uploaded location when an S3 bucket is configured.
	VideoURL string
	// CreatedAt is when the job was created.
	CreatedAt time.Time
	// UpdatedAt is when the job was last updated.
	UpdatedAt time.Time
	// StartedAt is when processing started.
	StartedAt time.Time
	// CompletedAt is when processing finished.
	CompletedAt time.Time
}

// New creates a VideoJob in QUEUED state for one input file.
func New(inputAudio, outputVideo string, style render.StyleConfig) *VideoJob {
	now := time.Now()
	return &VideoJob{
		ID:              id.Generate(),
		Status:          StatusQueued,
		InputAudioPath:  inputAudio,
		OutputVideoPath: outputVideo,
		Style:           style,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewWithID creates a VideoJob with the specified ID and initial QUEUED
// status. Useful for testing or when the ID is externally generated.
func NewWithID(jobID string) *VideoJob {
	now := time.Now()
	return &VideoJob{
		ID:        jobID,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo attempts to change the job status to the specified state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (j *VideoJob) TransitionTo(status Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !canTransition(j.Status, status) {
		return ErrInvalidTransition
	}

	j.Status = status
	j.UpdatedAt = time.Now()

	switch status {
	case StatusRunning:
		j.StartedAt = j.UpdatedAt
	case StatusCompleted, StatusFailed, StatusCancelled:
		j.CompletedAt = j.UpdatedAt
	}

	return nil
}

// Start transitions the job from QUEUED to RUNNING.
func (j *VideoJob) Start() error {
	return j.TransitionTo(StatusRunning)
}

// Complete transitions the job to COMPLETED state.
func (j *VideoJob) Complete() error {
	return j.TransitionTo(StatusCompleted)
}

// Fail transitions the job to FAILED state with an error message.
func (j *VideoJob) Fail(errMsg string) error {
	j.mu.Lock()
	j.Error = errMsg
	j.mu.Unlock()
	return j.TransitionTo(StatusFailed)
}

// Cancel transitions the job to CANCELLED state.
func (j *VideoJob) Cancel() error {
	return j.TransitionTo(StatusCancelled)
}

// GetStatus returns the current job status (thread-safe).
func (j *VideoJob) GetStatus() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// SetTotalFrames records the frame count once extraction finished.
func (j *VideoJob) SetTotalFrames(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.TotalFrames = n
	j.UpdatedAt = time.Now()
}

// UpdateProgress sets the progress percentage (0-100).
func (j *VideoJob) UpdateProgress(progress int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	j.Progress = progress
	j.UpdatedAt = time.Now()
}

// SetVideoURL records the uploaded location of the finished video.
func (j *VideoJob) SetVideoURL(url string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.VideoURL = url
	j.UpdatedAt = time.Now()
}

// IsTerminal returns true if the job is in a terminal state.
func (j *VideoJob) IsTerminal() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status == StatusCompleted ||
		j.Status == StatusFailed ||
		j.Status == StatusCancelled
}

// Clone creates a deep copy of the job for safe reads.
func (j *VideoJob) Clone() *VideoJob {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return &VideoJob{
		ID:              j.ID,
		Status:          j.Status,
		Progress:        j.Progress,
		Error:           j.Error,
		InputAudioPath:  j.InputAudioPath,
		OutputVideoPath: j.OutputVideoPath,
		Style:           j.Style,
		TotalFrames:     j.TotalFrames,
		VideoURL:        j.VideoURL,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
	}
}
