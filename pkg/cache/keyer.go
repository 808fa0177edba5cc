package cache

// keyVersion is bumped whenever the cached encodings change.
const keyVersion = "v1"

// ResultKeyOpts holds the run options that affect an assignment result.
type ResultKeyOpts struct {
	Name       string `json:"name"` // reports embed the network name
	Iterations int    `json:"iterations"`
	Trace      bool   `json:"trace,omitempty"`
}

// ArtifactKeyOpts holds the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey identifies an evaluated assignment of a network.
	ResultKey(networkHash string, opts ResultKeyOpts) string

	// ArtifactKey identifies one output format rendered from a result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256>".
func (DefaultKeyer) ResultKey(networkHash string, opts ResultKeyOpts) string {
	return hashKey("result", keyVersion, networkHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, resultHash, opts)
}
