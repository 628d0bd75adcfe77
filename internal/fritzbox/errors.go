package fritzbox

import "errors"

var (
	// ErrAuthentication covers every login failure: network, bad XML,
	// missing challenge and the all-zero SID the box returns for bad credentials.
	ErrAuthentication = errors.New("fritzbox: authentication failed")

	// ErrEndpointNotFound means no candidate query path answered with 2xx.
	ErrEndpointNotFound = errors.New("fritzbox: no working query endpoint")

	// ErrFetch is a network or HTTP failure during the authenticated query.
	ErrFetch = errors.New("fritzbox: ticket query failed")

	ErrCannotConnect = errors.New("cannot connect")
)
