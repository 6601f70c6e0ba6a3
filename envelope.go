package intermodal

// Envelope is a complete message: a Manifest plus the opaque Content it
// describes. An envelope has no identity beyond the pair itself and carries no
// cross-message state; a consumer can route it using only its own manifest.
type Envelope struct {
	Manifest Manifest
	Content  Value
}

// NewEnvelope pairs a Header's manifest with content, the counterpart of
// Header extraction.
func NewEnvelope(h Header, content Value) Envelope {
	return Envelope{Manifest: h.Manifest, Content: content}
}

// Header returns the manifest-only view of the envelope.
func (e Envelope) Header() Header { return Header{Manifest: e.Manifest} }

// Equal reports structural equality of both manifest and content.
func (e Envelope) Equal(o Envelope) bool {
	return e.Manifest.Equal(o.Manifest) && e.Content.Equal(o.Content)
}

// Header is the elemental structure consisting of only a manifest. Generic
// handlers decode a block into a Header first and use the manifest to decide
// how, or whether, to interpret the content.
type Header struct {
	Manifest Manifest
}

// HeaderOf extracts the manifest-only view from an envelope.
func HeaderOf(e Envelope) Header { return e.Header() }
