package models

// All lists every persisted model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&KYCDocument{},
		&Bank{},
		&CustodialWallet{},
		&Escrow{},
		&EscrowBankBalance{},
		&EscrowCryptoWalletBalance{},
		&EscrowAuditLog{},
		&SellerBankAccount{},
		&SellerCryptoWallet{},
		&BuyerCryptoWallet{},
	}
}
