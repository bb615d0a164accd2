/*
Package ports defines the driven ports (interfaces) for the Redline coordinator.

These interfaces decouple the core logic from external implementations,
allowing the coordinator to work with different session stores and
presentation surfaces.

# Key Interfaces

  - SessionStore: Responsible for holding the active review session and its completion signal.
  - Presenter: Responsible for surfacing the review URL to a human (e.g., opening a browser).
*/
package ports
