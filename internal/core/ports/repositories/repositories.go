package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// It is populated by the concrete database package at startup.
type RepositoryProvider struct {
	WalletRepo       WalletRepositoryFacade
	PurchaseRepo     PurchaseRepositoryFacade
	RechargeCodeRepo RechargeCodeRepositoryFacade
	CourseRepo       CourseRepositoryFacade
	AuditRepo        AuditRepositoryFacade
	UserRepo         UserRepositoryFacade
}
