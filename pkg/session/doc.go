/*
Package session provides admission control for review sessions.

The coordinator processes one review at a time. Gate models that policy as
an explicitly owned resource instead of ambient global state, so tests can
construct independent coordinators. Waiters are admitted in FIFO order, and
waiting is context-aware: a caller that gives up while queued never leaks
its place in line.
*/
package session
