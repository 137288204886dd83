package rental

import "time"

// CheckOutRequest lends AssetID to BorrowerID until DueDate.
type CheckOutRequest struct {
	AssetID    string
	BorrowerID string
	DueDate    time.Time
	// ActorID is only used when check-outs are audited.
	ActorID string
}

// CheckInRequest closes the open rental of AssetID.
type CheckInRequest struct {
	AssetID string
	ActorID string
}

// CheckInResult summarises a completed check-in.
type CheckInResult struct {
	RentalID     int64     `json:"rentalId"`
	AssetID      string    `json:"assetId"`
	ReturnDate   time.Time `json:"returnDate"`
	BorrowerID   string    `json:"borrowerId"`
	BorrowerName string    `json:"borrowerName"`
}

// StatusRow is one line of the status board.
type StatusRow struct {
	AssetID         string     `json:"assetId"`
	Manufacturer    string     `json:"manufacturer"`
	OperatingSystem string     `json:"os"`
	Memory          string     `json:"memory"`
	Storage         string     `json:"storage"`
	GraphicsCard    string     `json:"graphicsCard"`
	Location        string     `json:"location"`
	IsBroken        bool       `json:"isBroken"`
	RentalID        *int64     `json:"rentalId"`
	Available       bool       `json:"available"`
	BorrowerID      *string    `json:"borrowerId"`
	BorrowerName    string     `json:"borrowerName"`
	Department      string     `json:"department"`
	RentalDate      *time.Time `json:"rentalDate"`
	DueDate         *time.Time `json:"dueDate"`
	ReturnDate      *time.Time `json:"returnDate"`
	IsOverdue       bool       `json:"isOverdue"`
}

// ActiveRental is the open rental held by a borrower.
type ActiveRental struct {
	RentalID        int64      `json:"rentalId"`
	AssetID         string     `json:"assetId"`
	BorrowerID      string     `json:"borrowerId"`
	Manufacturer    string     `json:"manufacturer"`
	OperatingSystem string     `json:"os"`
	Location        string     `json:"location"`
	RentalDate      *time.Time `json:"rentalDate"`
	DueDate         *time.Time `json:"dueDate"`
	IsOverdue       bool       `json:"isOverdue"`
}

// HistoryRow is one recorded lending cycle.
type HistoryRow struct {
	ID           int64      `json:"id"`
	ChangedAt    time.Time  `json:"changedAt"`
	ChangeType   string     `json:"changeType"`
	AssetID      string     `json:"assetId"`
	BorrowerID   *string    `json:"borrowerId"`
	BorrowerName *string    `json:"borrowerName"`
	RentalDate   *time.Time `json:"rentalDate"`
	DueDate      *time.Time `json:"dueDate"`
	ReturnDate   *time.Time `json:"returnDate"`
	ChangedBy    string     `json:"changedBy"`
}
