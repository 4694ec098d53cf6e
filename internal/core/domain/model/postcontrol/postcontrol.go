// Package postcontrol models the document verification step gating final
// delivery checkpoints. Requirements form a two-level config tree; uploaded
// documents carry a resolution state that is aggregated over leaf configs.
package postcontrol

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
)

var (
	// ErrConfigIsNotConstructed is returned for a Config created outside NewConfig.
	ErrConfigIsNotConstructed = errors.New("Config must be created via NewConfig constructor")

	// ErrDocumentIsNotConstructed is returned for a Document created outside
	// NewDocument or RestoreDocument.
	ErrDocumentIsNotConstructed = errors.New("Document must be created via NewDocument constructor")

	// ErrCommentIsRequired is returned when a declining resolution carries no comment.
	ErrCommentIsRequired = errors.New("comment is required for declining resolutions")

	// ErrDocumentLimitExceeded is returned when a config already holds its
	// maximum number of documents for an order.
	ErrDocumentLimitExceeded = errors.New("post-control document limit exceeded")
)

// Purpose scopes a config tree to its verification flow.
type Purpose string

const (
	// PostControlPurpose is the regular verification before delivery.
	PostControlPurpose Purpose = "post-control"
	// CancellationPurpose is the verification required to cancel at the client.
	CancellationPurpose Purpose = "cancellation-at-client"
)

// Resolution is the review state of an uploaded document.
type Resolution string

const (
	Pending      Resolution = "pending"
	Accepted     Resolution = "accepted"
	Declined     Resolution = "declined"
	BankAccepted Resolution = "bank-accepted"
	BankDeclined Resolution = "bank-declined"
)

// IsAccepting reports whether the resolution counts as approval.
func (r Resolution) IsAccepting() bool {
	return r == Accepted || r == BankAccepted
}

// IsDeclining reports whether the resolution counts as rejection.
func (r Resolution) IsDeclining() bool {
	return r == Declined || r == BankDeclined
}

// Config is one node of the requirement tree. A node with a nil parent is
// top-level; children reference their parent by ID. Only leaves take part in
// completion counting.
type Config struct {
	id             kernel.UUID
	name           string
	productType    order.ProductType
	purpose        Purpose
	parentID       *kernel.UUID
	documentsLimit int

	isConstructed bool
}

// NewConfig creates a requirement node. documentsLimit bounds how many
// documents one order may attach to this config; zero means one.
func NewConfig(
	id kernel.UUID,
	name string,
	productType order.ProductType,
	purpose Purpose,
	parentID *kernel.UUID,
	documentsLimit int,
) (*Config, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if purpose != PostControlPurpose && purpose != CancellationPurpose {
		return nil, errs.NewValueIsInvalidError(fmt.Sprintf("purpose %q", purpose))
	}
	if parentID != nil {
		if err := parentID.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("parentID", err)
		}
	}
	if documentsLimit < 0 {
		return nil, errs.NewValueIsOutOfRangeError("documentsLimit", documentsLimit, 0, 100)
	}
	if documentsLimit == 0 {
		documentsLimit = 1
	}

	return &Config{
		id:             id,
		name:           name,
		productType:    productType,
		purpose:        purpose,
		parentID:       parentID,
		documentsLimit: documentsLimit,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Config was created via NewConfig.
func (c *Config) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConfigIsNotConstructed
	}
	return nil
}

// ID returns the config identity.
func (c *Config) ID() kernel.UUID { return c.id }

// Name returns the display name of the requirement.
func (c *Config) Name() string { return c.name }

// ProductType returns the product the requirement applies to.
func (c *Config) ProductType() order.ProductType { return c.productType }

// Purpose returns the verification flow the requirement belongs to.
func (c *Config) Purpose() Purpose { return c.purpose }

// ParentID returns the parent node, or nil for a top-level config.
func (c *Config) ParentID() *kernel.UUID { return c.parentID }

// DocumentsLimit returns the per-order document cap for this config.
func (c *Config) DocumentsLimit() int { return c.documentsLimit }

// IsChild reports whether the config has a parent.
func (c *Config) IsChild() bool { return c.parentID != nil }

// LeafConfigs filters the given tree down to countable nodes: children always
// count, a top-level node counts only when no child references it.
func LeafConfigs(configs []*Config) []*Config {
	hasChildren := make(map[kernel.UUID]bool, len(configs))
	for _, c := range configs {
		if c.parentID != nil {
			hasChildren[*c.parentID] = true
		}
	}

	leaves := make([]*Config, 0, len(configs))
	for _, c := range configs {
		if c.parentID != nil || !hasChildren[c.id] {
			leaves = append(leaves, c)
		}
	}
	return leaves
}

// Document is one uploaded verification image and its review state.
type Document struct {
	id         kernel.UUID
	orderID    kernel.UUID
	configID   kernel.UUID
	imageKey   string
	resolution Resolution
	comment    string
	createdAt  time.Time
	resolvedAt *time.Time
	resolvedBy *kernel.UUID

	isConstructed bool
}

// NewDocument creates a pending document for an order and config.
func NewDocument(id, orderID, configID kernel.UUID, imageKey string, now time.Time) (*Document, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), configID.Validate()); err != nil {
		return nil, err
	}
	if imageKey == "" {
		return nil, errs.NewValueIsRequiredError("imageKey")
	}

	return &Document{
		id:            id,
		orderID:       orderID,
		configID:      configID,
		imageKey:      imageKey,
		resolution:    Pending,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreDocument rebuilds a document from persistence.
func RestoreDocument(
	id, orderID, configID kernel.UUID,
	imageKey string,
	resolution Resolution,
	comment string,
	createdAt time.Time,
	resolvedAt *time.Time,
	resolvedBy *kernel.UUID,
) (*Document, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), configID.Validate()); err != nil {
		return nil, err
	}

	return &Document{
		id:            id,
		orderID:       orderID,
		configID:      configID,
		imageKey:      imageKey,
		resolution:    resolution,
		comment:       comment,
		createdAt:     createdAt,
		resolvedAt:    resolvedAt,
		resolvedBy:    resolvedBy,
		isConstructed: true,
	}, nil
}

// Validate ensures the Document was created via its constructors.
func (d *Document) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDocumentIsNotConstructed
	}
	return nil
}

// ID returns the document identity.
func (d *Document) ID() kernel.UUID { return d.id }

// OrderID returns the owning order.
func (d *Document) OrderID() kernel.UUID { return d.orderID }

// ConfigID returns the requirement the document satisfies.
func (d *Document) ConfigID() kernel.UUID { return d.configID }

// ImageKey returns the storage key of the uploaded image.
func (d *Document) ImageKey() string { return d.imageKey }

// Resolution returns the current review state.
func (d *Document) Resolution() Resolution { return d.resolution }

// Comment returns the reviewer comment.
func (d *Document) Comment() string { return d.comment }

// CreatedAt returns the upload time.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// ResolvedAt returns when the document was reviewed, or nil.
func (d *Document) ResolvedAt() *time.Time { return d.resolvedAt }

// ResolvedBy returns the reviewing actor, or nil.
func (d *Document) ResolvedBy() *kernel.UUID { return d.resolvedBy }

// Resolve sets the review state. Declining resolutions require a comment.
func (d *Document) Resolve(resolution Resolution, comment string, actor kernel.UUID, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	switch resolution {
	case Accepted, Declined, BankAccepted, BankDeclined:
	default:
		return errs.NewValueIsInvalidError(fmt.Sprintf("resolution %q", resolution))
	}
	if resolution.IsDeclining() && comment == "" {
		return ErrCommentIsRequired
	}

	d.resolution = resolution
	d.comment = comment
	d.resolvedAt = &now
	d.resolvedBy = &actor

	return nil
}

// Summary aggregates the review state of an order's documents against the
// leaf configs of its requirement tree.
type Summary struct {
	LeafCount         int
	DocumentCount     int
	AcceptedCount     int
	BankAcceptedCount int
	AnyDeclined       bool
	AnyBankDecl       bool
	AnyPending        bool
}

// Summarize computes the aggregate over leaf configs. A leaf counts as
// accepted when at least one of its documents holds an accepting resolution
// and none is pending or declined.
func Summarize(configs []*Config, documents []*Document) Summary {
	leaves := LeafConfigs(configs)
	byConfig := make(map[kernel.UUID][]*Document, len(leaves))
	for _, doc := range documents {
		byConfig[doc.configID] = append(byConfig[doc.configID], doc)
	}

	s := Summary{LeafCount: len(leaves), DocumentCount: len(documents)}
	for _, leaf := range leaves {
		docs := byConfig[leaf.id]
		if len(docs) == 0 {
			continue
		}

		accepted := false
		bankAccepted := false
		clean := true
		for _, doc := range docs {
			switch {
			case doc.resolution == BankAccepted:
				accepted = true
				bankAccepted = true
			case doc.resolution == Accepted:
				accepted = true
			case doc.resolution == Pending:
				s.AnyPending = true
				clean = false
			case doc.resolution == Declined:
				s.AnyDeclined = true
				clean = false
			case doc.resolution == BankDeclined:
				s.AnyBankDecl = true
				clean = false
			}
		}
		if accepted && clean {
			s.AcceptedCount++
			if bankAccepted {
				s.BankAcceptedCount++
			}
		}
	}

	return s
}

// AllAccepted reports whether every leaf config is satisfied by an accepted
// document and nothing is pending or declined.
func (s Summary) AllAccepted() bool {
	return s.LeafCount > 0 && s.AcceptedCount == s.LeafCount &&
		!s.AnyDeclined && !s.AnyBankDecl && !s.AnyPending
}

// AllBankAccepted reports whether every leaf config is satisfied through the
// bank review track specifically.
func (s Summary) AllBankAccepted() bool {
	return s.LeafCount > 0 && s.BankAcceptedCount == s.LeafCount &&
		!s.AnyDeclined && !s.AnyBankDecl && !s.AnyPending
}

// CountDocumentsForConfig returns how many of the order's documents belong to
// the given config.
func CountDocumentsForConfig(documents []*Document, configID kernel.UUID) int {
	n := 0
	for _, doc := range documents {
		if doc.configID.IsEqual(configID) {
			n++
		}
	}
	return n
}
