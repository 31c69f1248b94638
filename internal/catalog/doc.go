// Package catalog provides the persona roster and topic pool a debate
// session draws from.
//
// # Overview
//
// A Catalog bundles the AI personas (name, avatar, color, role,
// personality, style) together with the topic pool the session rotates
// through. The persona fields are everything the content source needs to
// stay in character.
//
// The server ships with a built-in catalog so it runs with zero external
// data files. Deployments can override it with a TOML file:
//
//	catalog:
//	  path: "/etc/agora/catalog.toml"
//
// # Catalog File Format
//
//	topics = [
//	  "Should voting be mandatory?",
//	  "Is cash obsolete?",
//	]
//
//	[[personas]]
//	id = "nova"
//	name = "Nova"
//	avatar = "🌟"
//	color = "#4a9eff"
//	role = "The Optimist"
//	personality = "empathetic, progressive, hopeful"
//	style = "argues with human impact, emotion, and vision"
//
// At least two personas and one topic are required.
package catalog
