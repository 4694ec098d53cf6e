package services

import (
	"fmt"

	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/core/domain/model/status"
)

// TransitionFacts carries the evidence gathered by the caller that
// step-specific preconditions need: OTP state and the post-control document
// aggregate. The validator itself performs no I/O.
type TransitionFacts struct {
	OTPCreated   bool
	OTPConfirmed bool
	PostControl  postcontrol.Summary
}

// Violation is one field-tagged precondition failure. The transport layer
// decides how to surface it.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// StatusTransitionValidator checks step-specific preconditions before a
// checkpoint transition is allowed. Graph membership and ordering are the
// aggregate's concern; this service covers the rules that need external
// evidence.
type StatusTransitionValidator struct{}

// NewStatusTransitionValidator creates a new StatusTransitionValidator instance.
func NewStatusTransitionValidator() StatusTransitionValidator {
	return StatusTransitionValidator{}
}

// CanTransition evaluates the preconditions of the target checkpoint against
// the order and the supplied facts. An empty result means the transition may
// proceed.
func (v StatusTransitionValidator) CanTransition(
	o *order.Order,
	target status.Slug,
	facts TransitionFacts,
) []Violation {
	var violations []Violation

	switch target {
	case status.SMSSent:
		if !facts.OTPCreated && !o.IsOTPExempt() {
			violations = append(violations, Violation{
				Field:   "otp",
				Message: "an OTP record must exist before sending the code",
			})
		}

	case status.ScanCard:
		if !facts.OTPConfirmed {
			violations = append(violations, Violation{
				Field:   "otp",
				Message: "the OTP must be confirmed before scanning the card",
			})
		}

	case status.PhotoCapture:
		if !o.ProductType().IsCard() {
			violations = append(violations, Violation{
				Field:   "product_type",
				Message: "photo capture applies to card products only",
			})
		}

	case status.PostControl:
		if facts.PostControl.DocumentCount != facts.PostControl.LeafCount {
			violations = append(violations, Violation{
				Field: "post_control",
				Message: fmt.Sprintf("expected %d documents, got %d",
					facts.PostControl.LeafCount, facts.PostControl.DocumentCount),
			})
		}

	case status.Delivered, status.Issued:
		if !v.postControlComplete(o, facts.PostControl) {
			violations = append(violations, Violation{
				Field:   "post_control",
				Message: "all verification documents must be accepted",
			})
		}
	}

	return violations
}

// postControlComplete applies the acceptance rule: when the order's graph
// carries a bank review step, bank acceptance is mandatory for every leaf;
// otherwise plain acceptance suffices. Orders without any leaf configs are
// not subject to post-control at all.
func (v StatusTransitionValidator) postControlComplete(o *order.Order, s postcontrol.Summary) bool {
	if s.LeafCount == 0 {
		return true
	}
	if o.Graph().Operator().Contains(status.PostControlBank) {
		return s.AllBankAccepted()
	}
	return s.AllAccepted()
}

// NextStatus returns the graph step following from, or the first step when
// from is not part of the order's graph.
func NextStatus(o *order.Order, from status.Slug) (deliverygraph.Step, error) {
	operator := o.Graph().Operator()
	if !operator.Contains(from) {
		return operator.First()
	}
	return operator.StepAfter(from)
}
