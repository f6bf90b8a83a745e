package client

import (
	"fmt"
	"net/http"

	"github.com/akamai/AkamaiOPEN-edgegrid-golang/v9/pkg/edgegrid"
)

// Signer authenticates outgoing requests. Implementations add whatever
// headers the remote API requires; the request executor never inspects
// them. Any signing scheme can be swapped in without touching the
// executor's control flow.
type Signer interface {
	Sign(req *http.Request) error
}

// EdgeGridSigner signs requests with Akamai EdgeGrid authentication,
// sourced from an .edgerc credentials file with named sections.
type EdgeGridSigner struct {
	config *edgegrid.Config
}

// NewEdgeGridSigner loads credentials from the given .edgerc file and
// section. A missing section is a configuration error surfaced before any
// network call is made.
func NewEdgeGridSigner(file, section string) (*EdgeGridSigner, error) {
	config, err := edgegrid.New(edgegrid.WithFile(file), edgegrid.WithSection(section))
	if err != nil {
		return nil, &APIError{
			Kind:    KindInvalidSection,
			Message: fmt.Sprintf("cannot load section %q from %s", section, file),
			Err:     err,
		}
	}

	return &EdgeGridSigner{config: config}, nil
}

// Sign adds the EdgeGrid authorization header to req.
func (s *EdgeGridSigner) Sign(req *http.Request) error {
	s.config.SignRequest(req)
	return nil
}

// Host returns the API host configured in the credentials section.
func (s *EdgeGridSigner) Host() string {
	return s.config.Host
}
