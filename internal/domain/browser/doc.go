// Package browser implements the browser process controller.
//
// The Controller owns an in-memory table with at most one entry per browser
// Kind and mediates four operations on it: Launch, Terminate, QueryAddress
// and ResetProfile. Everything that touches the operating system goes through
// the ports declared in ports.go (Platform, Spawner, ProfileRemover), which
// package platform implements for darwin, windows and linux.
//
// State per kind:
//
//	NotRunning --Launch--> Running --Terminate--> NotRunning
//
// A failed Launch leaves the kind NotRunning, QueryAddress never changes
// state, and ResetProfile is only accepted while NotRunning. Operations on
// the same kind are serialized; different kinds run in parallel.
//
// The table is authoritative. A process that exits on its own keeps its
// entry (flagged Exited) unless the controller was built with ReapOnExit.
// A start error reported after Launch returned always retracts the entry.
package browser
