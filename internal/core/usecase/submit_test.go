package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/printdesk/labelpress/internal/core/domain"
)

type submitRepoFake struct {
	created  *domain.MergeJob
	statuses []domain.JobStatus
	lastErr  string
	err      error
}

func (f *submitRepoFake) Create(_ context.Context, job *domain.MergeJob) error {
	if f.err != nil {
		return f.err
	}
	f.created = job
	return nil
}

func (f *submitRepoFake) GetByID(context.Context, string) (*domain.MergeJob, error) {
	return f.created, nil
}

func (f *submitRepoFake) UpdateStatus(_ context.Context, _ string, status domain.JobStatus, errMessage string) error {
	f.statuses = append(f.statuses, status)
	f.lastErr = errMessage
	return nil
}

func (f *submitRepoFake) SaveOutputs(context.Context, string, []domain.JobOutput, []domain.BulkFailure, string) error {
	return nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishJobQueued(_ context.Context, jobID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, jobID)
	return nil
}

func (f *queueFake) SubscribeJobQueued(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestSubmitStoresSheetsAndPublishes(t *testing.T) {
	repo := &submitRepoFake{}
	storage := newStorageFake()
	queue := &queueFake{}

	uc := NewSubmitJobUseCase(repo, storage, queue)
	job, err := uc.Submit(
		context.Background(),
		"label sheet.pdf", strings.NewReader("label-bytes"),
		"slips.pdf", strings.NewReader("slip-bytes"),
	)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if job.Status != domain.JobUploaded {
		t.Fatalf("status = %q", job.Status)
	}
	if !strings.HasSuffix(job.LabelPath, "_label_label_sheet.pdf") {
		t.Fatalf("label path = %q", job.LabelPath)
	}
	if _, ok := storage.objects[job.SlipPath]; !ok {
		t.Fatalf("slip sheet not stored")
	}
	if len(queue.published) != 1 || queue.published[0] != job.ID {
		t.Fatalf("published = %v", queue.published)
	}
	if repo.created == nil || repo.created.ID != job.ID {
		t.Fatalf("job row not created")
	}
}

func TestSubmitFailsWhenPublishFails(t *testing.T) {
	repo := &submitRepoFake{}
	uc := NewSubmitJobUseCase(repo, newStorageFake(), &queueFake{err: errors.New("nats down")})
	_, err := uc.Submit(
		context.Background(),
		"a.pdf", strings.NewReader("x"),
		"b.pdf", strings.NewReader("y"),
	)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish job event") {
		t.Fatalf("error = %v", err)
	}

	// The row must not stay stranded in uploaded; no worker will pick it up.
	if len(repo.statuses) != 1 || repo.statuses[0] != domain.JobFailed {
		t.Fatalf("statuses = %v, want the job marked failed", repo.statuses)
	}
	if !strings.Contains(repo.lastErr, "nats down") {
		t.Fatalf("recorded error = %q", repo.lastErr)
	}
}
