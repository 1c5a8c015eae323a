package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract name
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrNoBytecode is returned when an artifact has no creation code (interfaces, abstract contracts)
	ErrNoBytecode = errors.New("artifact has no bytecode")

	// ErrUnlinkedBytecode is returned when an artifact still references libraries
	ErrUnlinkedBytecode = errors.New("artifact bytecode requires library linking")

	// ErrConstructorArgs is returned when the number of constructor arguments doesn't match the ABI
	ErrConstructorArgs = errors.New("constructor argument mismatch")

	// ErrDeploymentReverted is returned when the creation transaction was mined but failed
	ErrDeploymentReverted = errors.New("deployment transaction reverted")

	// ErrNetworkNotConfigured is returned when no network was selected or it can't be found
	ErrNetworkNotConfigured = errors.New("network not configured")

	// ErrSenderNotConfigured is returned when the namespace has no usable deployer sender
	ErrSenderNotConfigured = errors.New("sender not configured")

	// ErrDuplicateMigration is returned when two migrations share an ID
	ErrDuplicateMigration = errors.New("duplicate migration")

	// ErrAborted is returned when the user declines to continue
	ErrAborted = errors.New("aborted by user")
)

// ArtifactNotFoundErr carries the name that was looked up and close matches
type ArtifactNotFoundErr struct {
	Name        string
	Suggestions []string
}

func (e ArtifactNotFoundErr) Error() string {
	msg := fmt.Sprintf("could not find artifact for contract %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e ArtifactNotFoundErr) Unwrap() error {
	return ErrArtifactNotFound
}

// MigrationFailedErr wraps the error returned by a migration
type MigrationFailedErr struct {
	ID   uint
	Name string
	Err  error
}

func (e *MigrationFailedErr) Error() string {
	return fmt.Sprintf("migration %d_%s failed: %v", e.ID, e.Name, e.Err)
}

func (e *MigrationFailedErr) Unwrap() error {
	return e.Err
}
