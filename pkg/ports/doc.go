/*
Package ports defines the driven ports (interfaces) for the remac engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various storage backends and API transports.

# Key Interfaces

  - RecordingStore: Responsible for persisting and loading Recordings (macros).
  - CallIssuer: Responsible for actually issuing an API call against the target system.
  - ContextUpdater: Controls how prior-call results are keyed into the playback context.
*/
package ports
