package service

import (
	"context"

	"github.com/google/uuid"

	"skillswap/tools/errs"
	"skillswap/tools/security"
)

// Identity resolves an opaque bearer credential to a stable user id.
// This implementation validates an HMAC JWT and checks the subject
// against the user table; anything that does not resolve is ErrAuth.
type Identity struct {
	opts  security.Options
	users UserStore
}

func NewIdentity(opts security.Options, users UserStore) *Identity {
	return &Identity{opts: opts, users: users}
}

func (i *Identity) Resolve(ctx context.Context, credential string) (uuid.UUID, error) {
	if credential == "" {
		return uuid.Nil, errs.ErrAuth.WithDetail("missing credential")
	}
	sub, err := security.Verify(i.opts, credential)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errs.ErrAuth.WithDetail("subject is not a user id")
	}
	if _, err := i.users.GetUser(ctx, id); err != nil {
		return uuid.Nil, errs.ErrAuth.WrapMsg("unknown subject", err)
	}
	return id, nil
}
