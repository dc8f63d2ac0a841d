// Package eboekhouden drives e-boekhouden.nl, a bookkeeping application
// without a public API, through a headless browser.
//
// The package exposes one collaborator, Client, with the three capabilities
// the synchronizer needs: Login, FetchEvents (export the hour overview as a
// spreadsheet and parse it) and SubmitEvent (create one hour registration
// through the add-hours form). How those are composed internally is an
// implementation detail callers must not depend on.
//
// One Client is one interactive browser session. Calls must be strictly
// sequential; the remote application cannot handle concurrent form
// submissions within a session.
//
// Failures split into two kinds: UnavailableError (the session could not be
// established or was lost) and FormatError (the session works but a page or
// export does not look like what we know how to read). Both are fatal for
// the current run; retrying is the caller's business, not this package's.
package eboekhouden
