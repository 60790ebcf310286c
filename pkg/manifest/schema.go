package manifest

// builtinManifestSchema is the CUE schema every manifest must satisfy. The
// candidate and component lists are ordered: runtimes most-preferred first,
// core components in install order.
const builtinManifestSchema = `
#Manifest: {
	// Interpreter candidates, most preferred first.
	runtimes: [string, ...string]

	// Core components, in install order.
	core: [string, ...string]

	// Optional plugin packages, in install order. Names use the monorepo
	// directory spelling (underscores preserved).
	plugins: [...string]
}
`

// builtinManifest is the default package manifest. It mirrors the layout of
// the Fix Inventory monorepo.
const builtinManifest = `
runtimes: ["python3.12", "python3.11", "python3.10", "python3"]

core: ["fixlib", "fixcore", "fixworker", "fixmetrics", "fixshell"]

plugins: [
	"aws",
	"azure",
	"gcp",
	"k8s",
	"onprem",
	"posthog",
	"random",
	"cleanup_untagged",
]
`
