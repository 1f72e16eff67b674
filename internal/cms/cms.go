package cms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/firestore"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

const (
	settingsCollection  = "settings"
	homepageDocID       = "homepage"
	overridesCollection = "product_overrides"

	// The platform returns product ids as URIs; override documents are
	// keyed by the bare numeric id.
	productIDPrefix = "gid://shopify/Product/"
)

// Homepage is the merchandised landing-page content.
type Homepage struct {
	HeroTitle       string    `json:"heroTitle" firestore:"heroTitle"`
	HeroSubtitle    string    `json:"heroSubtitle" firestore:"heroSubtitle"`
	HeroImage       string    `json:"heroImage" firestore:"heroImage"`
	FeaturedHandles []string  `json:"featuredHandles" firestore:"featuredHandles"`
	Announcement    string    `json:"announcement" firestore:"announcement"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ProductOverride carries merchant-authored content layered over a
// platform product.
type ProductOverride struct {
	Description string    `json:"description" firestore:"description"`
	ExtraImages []string  `json:"extraImages" firestore:"extraImages"`
	Fabric      string    `json:"fabric" firestore:"fabric"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// CleanProductID strips the platform URI prefix and validates that a bare
// numeric id remains.
func CleanProductID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	id = strings.TrimPrefix(id, productIDPrefix)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product id %q is not numeric", raw))
		}
	}
	return id, nil
}

// Service reads and writes CMS documents.
type Service struct {
	fs     *firestore.Client
	logger *logger.Logger
}

func NewService(fs *firestore.Client, logg *logger.Logger) *Service {
	return &Service{fs: fs, logger: logg}
}

// Homepage returns the landing-page settings. A missing document yields
// empty settings, not an error.
func (s *Service) Homepage(ctx context.Context) (*Homepage, error) {
	snap, err := s.fs.Doc(settingsCollection, homepageDocID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return &Homepage{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading homepage settings")
	}

	var homepage Homepage
	if err := snap.DataTo(&homepage); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding homepage settings")
	}
	return &homepage, nil
}

// UpdateHomepage overwrites the landing-page settings.
func (s *Service) UpdateHomepage(ctx context.Context, homepage Homepage) (*Homepage, error) {
	homepage.UpdatedAt = time.Now().UTC()
	if _, err := s.fs.Doc(settingsCollection, homepageDocID).Set(ctx, homepage); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving homepage settings")
	}
	s.logger.Info(ctx, "homepage settings updated")
	return &homepage, nil
}

// Override returns the override for a product, or nil when none exists.
func (s *Service) Override(ctx context.Context, productID string) (*ProductOverride, error) {
	id, err := CleanProductID(productID)
	if err != nil {
		return nil, err
	}

	snap, err := s.fs.Doc(overridesCollection, id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product override")
	}

	var override ProductOverride
	if err := snap.DataTo(&override); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding product override")
	}
	return &override, nil
}

// SetOverride upserts the override for a product. Re-posting the same
// payload is naturally idempotent.
func (s *Service) SetOverride(ctx context.Context, productID string, override ProductOverride) (*ProductOverride, error) {
	id, err := CleanProductID(productID)
	if err != nil {
		return nil, err
	}

	override.UpdatedAt = time.Now().UTC()
	if _, err := s.fs.Doc(overridesCollection, id).Set(ctx, override); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving product override")
	}

	logCtx := s.logger.WithField(ctx, "product_id", id)
	s.logger.Info(logCtx, "product override saved")
	return &override, nil
}
