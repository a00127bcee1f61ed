/*
Package remac is a macro engine for REST APIs: it records live call
sequences, infers which values were really parameters, and turns the
sequence into a typed, replayable tool.

It separates the captured sequence (Recording) from the heuristics that
interpret it (Analyzer), the synthesis of a callable definition
(Generator), and the replay machinery (Player).

# Concept

An operator performs a workflow once against a REST API while remac
records every call. Stopping the recording runs the analyzer, which
detects repeated and shaped values (addresses, domains, identifiers,
ports) and promotes them to named parameters. The generator then renders
a tool definition with a typed input schema, and the player can replay
the whole sequence with new parameter values substituted in.

This hexagonal layout keeps the engine embeddable: storage
(memory/file/redis), transport (REST issuer), and surfaces (CLI, HTTP,
MCP) are all adapters around the same core.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/remaclabs/remac"
		"github.com/remaclabs/remac/pkg/adapters/rest"
		"github.com/remaclabs/remac/pkg/domain"
		"github.com/remaclabs/remac/pkg/player"
	)

	func main() {
		eng := remac.New(
			remac.WithIssuer(rest.New("https://firewall.local/api", rest.WithAPIKey("..."))),
		)

		// 1. Record a workflow.
		id, _ := eng.StartRecording("block-host", "Block a host on WAN")
		eng.RecordCall(domain.Call{
			Method:  domain.MethodPost,
			Path:    "/firewall/aliases",
			Payload: map[string]any{"address": "10.0.0.5"},
		})
		rec, err := eng.StopRecording(context.Background())
		if err != nil {
			log.Fatal(err)
		}

		// 2. Inspect what the analyzer promoted to parameters.
		for _, p := range rec.Parameters {
			fmt.Println(p.Name, p.Type, p.Required)
		}

		// 3. Replay with a different address.
		results, err := eng.Play(context.Background(), id, player.Options{
			Params: map[string]any{"targetAddress": "10.0.0.99"},
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("replayed", len(results), "calls")
	}

See the cmd/remac package for the CLI and the MCP/HTTP adapters for
serving the engine to agents and services.
*/
package remac
