package request

// CreateUserRequest represents a staff account creation request
type CreateUserRequest struct {
	FirstName string  `json:"first_name" binding:"required,min=2,max=255"`
	LastName  string  `json:"last_name" binding:"required,min=2,max=255"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Role      string  `json:"role" binding:"omitempty,oneof=admin cashier"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
}

// UpdateUserRequest represents a staff account update request
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=2,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,min=2,max=255"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin cashier"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
}

// UpdateStoreSettingsRequest represents a store settings update request
type UpdateStoreSettingsRequest struct {
	Address       *string `json:"address"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	TaxID         *string `json:"tax_id" binding:"omitempty,max=100"`
	Currency      *string `json:"currency" binding:"omitempty,max=10"`
	Timezone      *string `json:"timezone" binding:"omitempty,max=100"`
	ReceiptFooter *string `json:"receipt_footer" binding:"omitempty,max=500"`
}
