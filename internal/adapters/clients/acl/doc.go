// Package acl is the anti-corruption layer between the service and the
// remote motivation API. Adapters here own the wire DTOs, translate them
// into domain types and map every failure onto a domain error:
//
//	transport failure, circuit open, 5xx, 429  -> domain.ErrUnavailable
//	undecodable or invalid 2xx body            -> domain.ErrDecoding
//	401                                        -> domain.ErrUnauthorized
//	404                                        -> domain.ErrNotFound
//	409                                        -> domain.ErrConflict
//	403                                        -> domain.ErrForbidden
//	other 4xx                                  -> domain.ErrValidation
//
// Nothing outside this package sees an HTTP status or an external DTO.
package acl
