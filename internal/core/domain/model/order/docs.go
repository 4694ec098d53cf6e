// Package order provides the Order aggregate root of the delivery lifecycle.
//
// An order carries two independent state axes:
//   - the current checkpoint, always a step of the order's delivery graph and
//     backed by an append-only status history
//   - the delivery status, a parallel exception track (postponed, cancelled,
//     non-contact, being finalized, delivered)
//
// Key business rules:
//   - The current checkpoint slug always belongs to the assigned delivery graph
//   - History only grows; rollback and restore are the sole operations that
//     remove entries
//   - Terminal checkpoints (delivered, issued, ended) accept no further forward
//     transitions; restore reopens the order back to its initial step
//   - Certain checkpoints force a delivery status value: accepted-by-courier
//     sets on-the-way-to-call-point, delivered and issued set is_delivered
//   - The actual delivery time is stamped once when reaching post-control,
//     issued or delivered, and never overwritten
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
