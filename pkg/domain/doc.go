/*
Package domain contains the core domain models for the remac macro engine.

It defines the fundamental entities of the engine: recorded Calls, Recordings
(macros), Parameters, derived Analysis results, and synthesized ToolDefinitions.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Call: One captured request/response (or request/error) pair.
  - Recording: A persisted, ordered sequence of Calls plus inferred Parameters.
  - Parameter: A named, typed, validated placeholder for a value that varies across replays.
  - Analysis: Derived classification of a Recording (patterns, dependencies, suggestions).
  - ToolDefinition: The schema-described callable unit synthesized from a macro.
*/
package domain
