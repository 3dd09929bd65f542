package service

import (
	"context"
	"testing"
	"time"

	"fitcoach-api/pkg/models"
	qt "github.com/frankban/quicktest"
)

type fakeConsentRepo struct {
	calls []struct {
		userID   int64
		version  string
		accepted bool
	}
}

func (f *fakeConsentRepo) RecordConsent(_ context.Context, userID int64, version string, accepted bool) error {
	f.calls = append(f.calls, struct {
		userID   int64
		version  string
		accepted bool
	}{userID, version, accepted})
	return nil
}

func TestSubmitConsent(t *testing.T) {
	c := qt.New(t)
	repo := &fakeConsentRepo{}
	svc := NewConsentService(repo)

	receipt, err := svc.SubmitConsent(context.Background(), 5, "v2.1", true)
	c.Assert(err, qt.IsNil)
	c.Assert(receipt.OK, qt.IsTrue)
	c.Assert(receipt.Version, qt.Equals, "v2.1")
	c.Assert(time.Since(receipt.TS) < time.Minute, qt.IsTrue)

	c.Assert(len(repo.calls), qt.Equals, 1)
	c.Assert(repo.calls[0].userID, qt.Equals, int64(5))
	c.Assert(repo.calls[0].accepted, qt.IsTrue)
}

func TestSubmitConsentDefaultsVersion(t *testing.T) {
	c := qt.New(t)
	repo := &fakeConsentRepo{}
	svc := NewConsentService(repo)

	receipt, err := svc.SubmitConsent(context.Background(), 5, "", true)
	c.Assert(err, qt.IsNil)
	c.Assert(receipt.Version, qt.Equals, models.PDNVersion)
}

// A rejection is still recorded and still unblocks onboarding: the
// repository clears pdn_required for accepted=false as well.
func TestSubmitConsentRejectionIsRecorded(t *testing.T) {
	c := qt.New(t)
	repo := &fakeConsentRepo{}
	svc := NewConsentService(repo)

	receipt, err := svc.SubmitConsent(context.Background(), 5, "v1.0", false)
	c.Assert(err, qt.IsNil)
	c.Assert(receipt.OK, qt.IsTrue)
	c.Assert(len(repo.calls), qt.Equals, 1)
	c.Assert(repo.calls[0].accepted, qt.IsFalse)
}
