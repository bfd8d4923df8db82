// Package agent wraps the pyLoad download manager. Every lifecycle transition
// in the reconciliation loop depends on the per-file status reported here.
package agent

import (
	"context"
	"errors"
)

//go:generate mockgen -destination mocks/mock_gateway.go -package mocks github.com/fetcharr/fetcharr/internal/agent Gateway

// Sentinel errors for the agent package.
var (
	// ErrUnavailable is returned when the agent cannot be reached.
	ErrUnavailable = errors.New("download agent unavailable")

	// ErrUnauthorized is returned when the agent rejects the credentials.
	ErrUnauthorized = errors.New("download agent rejected credentials")
)

// PackageState is the tri-state outcome of a package status query, so the
// reconciliation loop can branch exhaustively instead of interpreting errors.
type PackageState int

const (
	// PackageNotFound means the agent no longer knows the package (it may
	// have been cleared manually).
	PackageNotFound PackageState = iota
	// PackageDownloading means at least one file is not finished.
	PackageDownloading
	// PackageFinished means every file reports a finished status.
	PackageFinished
)

func (s PackageState) String() string {
	switch s {
	case PackageDownloading:
		return "downloading"
	case PackageFinished:
		return "finished"
	default:
		return "not-found"
	}
}

// FileStatus is one constituent file of a package.
type FileStatus struct {
	Name     string
	Finished bool
}

// PackageStatus is the agent's report for one package.
type PackageStatus struct {
	State PackageState
	Files []FileStatus
}

// Gateway is the interface the rest of the system uses to talk to the
// download agent.
type Gateway interface {
	// AddPackage submits a named batch of URLs and returns the package id.
	AddPackage(ctx context.Context, name string, urls []string) (string, error)
	// PackageStatus reports the package state and its per-file statuses.
	// An unknown package yields PackageNotFound, not an error.
	PackageStatus(ctx context.Context, packageID string) (*PackageStatus, error)
	// DeletePackage removes a package from the agent. Deleting an unknown
	// package is not an error.
	DeletePackage(ctx context.Context, packageID string) error
}
