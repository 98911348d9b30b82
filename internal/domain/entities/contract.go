package entities

// ContractStatus is the state of a farm contract
type ContractStatus string

const (
	ContractStatusPending  ContractStatus = "PENDING"
	ContractStatusApproved ContractStatus = "APPROVED"
	ContractStatusRejected ContractStatus = "REJECTED"
)

// FarmContract is a renter's application for a plot on a farm
type FarmContract struct {
	ContractID    int64          `json:"contractId"`
	FarmID        int64          `json:"farmId"`
	FarmName      string         `json:"farmName,omitempty"`
	ApplicantID   int64          `json:"applicantId"`
	ApplicantName string         `json:"applicantName,omitempty"`
	OwnerID       int64          `json:"ownerId"`
	Status        ContractStatus `json:"status"`
	Message       string         `json:"message,omitempty"`
	CreatedAt     *Timestamp     `json:"createdAt,omitempty"`
}

// ContractApplication is the body of POST /farm-contracts
type ContractApplication struct {
	FarmID  int64  `json:"farmId"`
	Message string `json:"message,omitempty"`
}
