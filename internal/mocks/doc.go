// Package mocks holds hand-written test doubles for the store, auth, and
// transaction interfaces.
//
// Every mock follows one of two shapes. Store mocks keep what was written in
// exported fields (Created, StatusUpdates, MarkReadArgs, ...) and expose
// optional XxxFn fields that replace the default behavior when set:
//
//	gigs := &mocks.MockGigStore{
//		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Gig, error) {
//			return nil, store.ErrGigNotFound
//		},
//	}
//
// Service mocks such as MockJWTService and MockIdentityVerifier return canned
// values from plain fields. MockTransactor runs the callback with a nil
// transaction, so WithTx on the store mocks must tolerate nil.
package mocks
