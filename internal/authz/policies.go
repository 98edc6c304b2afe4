package authz

// Policies bound to API endpoints.
var (
	// ContentPolicy guards reviews and review comments: moderators, authors
	// and administrators may each change an object for a different reason.
	ContentPolicy = AnyOf(ReadOnlyOrAuthenticated, AuthorOrReadOnly, AdminOrSuperuser)

	// CatalogPolicy guards titles, categories and genres.
	CatalogPolicy = AdminOrReadOnly

	// UserAdminPolicy guards user management and the audit log.
	UserAdminPolicy = AdminOrSuperuser

	// OwnContentPolicy guards blog posts and their comments.
	OwnContentPolicy = AuthorOrReadOnly

	// SelfPolicy guards endpoints that act on the caller's own account.
	SelfPolicy = Authenticated
)
