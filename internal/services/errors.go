package services

import (
	apperrors "logisticsmart/internal/errors"
)

func errDemoUnavailable() error {
	return apperrors.NewAppError(apperrors.ErrTypeAuth,
		"Acesso de demonstração indisponível", apperrors.ErrInvalidCredentials)
}
