// Package request provides the Request Ledger's domain model: the TransportRequest
// aggregate, its Status state machine, Priority, and the Sequence that allocates
// queue numbers.
//
// Key business rules:
//   - Requests start Waiting and move Waiting -> PickedUp -> InTransit -> Finished
//   - Only the assigned porter may start or finish a request
//   - Requester or assigned porter may cancel anything not yet Finished
//   - Undo and cancel-pickup are administrative and unrestricted
//   - A porter is assigned exactly while the request is PickedUp or InTransit
//   - Priority only affects presentation
package request
