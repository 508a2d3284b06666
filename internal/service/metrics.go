package service

import (
	"errors"

	"github.com/haierkeys/objective-share-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "objective_share"

var (
	linksIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "links_issued_total",
		Help:      "Share links returned by get-or-create, split by role and whether an existing link was reused.",
	}, []string{"role", "reused"})

	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "resolutions_total",
		Help:      "Share token resolutions by outcome.",
	}, []string{"outcome"})

	inviteRedemptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "invite_redemptions_total",
		Help:      "Invite redemptions by outcome.",
	}, []string{"outcome"})
)

// outcomeLabel 将错误归类为有限的标签值
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrLinkNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrLinkRevoked):
		return "revoked"
	case errors.Is(err, domain.ErrLinkExpired), errors.Is(err, domain.ErrInviteExpired):
		return "expired"
	case errors.Is(err, domain.ErrInviteUsed):
		return "used"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrRoleMismatch):
		return "role_mismatch"
	case domain.IsStorageError(err):
		return "storage_error"
	}
	return "rejected"
}
