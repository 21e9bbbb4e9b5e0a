// Package services contains domain services that span more than one aggregate:
// AssignmentCoordinator, which keeps porter assignments consistent between the
// Request Ledger and the Porter Registry, and ComputeStatistics for the stats report.
package services
