/*
Package domain contains the core domain models for Redline review sessions.

It defines the fundamental entities of a review cycle, such as Items,
Sessions, and the final ReviewResult. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Item: One independently checkable/commentable unit derived from the reviewed document.
  - Session: Captures the runtime snapshot of a review (Title, Items, Status, Deadline).
  - ReviewResult: The structured outcome handed back to the calling workflow.
  - Summary: Approved/rejected/commented counts, derived from items at read time.
*/
package domain
