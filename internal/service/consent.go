package service

import (
	"context"
	"time"

	"fitcoach-api/internal/repository"
	"fitcoach-api/pkg/errs"
	"fitcoach-api/pkg/models"
	log "github.com/sirupsen/logrus"
)

type ConsentServiceImpl struct {
	consents repository.ConsentRepository
}

func NewConsentService(consents repository.ConsentRepository) *ConsentServiceImpl {
	return &ConsentServiceImpl{consents: consents}
}

// SubmitConsent appends the response to the consent log and unblocks the
// user. The pdn_required flag is cleared whether accepted is true or false:
// any recorded answer lets onboarding proceed.
func (c *ConsentServiceImpl) SubmitConsent(ctx context.Context, userID int64, version string, accepted bool) (models.ConsentReceipt, error) {
	if version == "" {
		version = models.PDNVersion
	}
	if err := c.consents.RecordConsent(ctx, userID, version, accepted); err != nil {
		log.Errorf("record consent err: %v", err)
		return models.ConsentReceipt{}, errs.ErrServer
	}
	return models.ConsentReceipt{OK: true, Version: version, TS: time.Now().UTC()}, nil
}
