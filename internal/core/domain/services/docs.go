// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the delivery system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - StatusTransitionValidator: step-specific precondition checks before a
//     checkpoint transition is allowed
//   - AreaResolver: polygon containment resolution of delivery points to
//     service areas
//   - DistributionEngine: minimum route time courier selection over the
//     routing oracle
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
