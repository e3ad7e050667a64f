package views

// ValidationError is a user-facing input problem detected before any
// request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrSelectTwoCampaigns = &ValidationError{"Please select two campaigns to compare"}
	ErrSelectCampaign     = &ValidationError{"Please select a campaign"}
	ErrMissingRevenue     = &ValidationError{"Please provide revenue data: paste your sales data, upload a file, or enter total revenue"}
	ErrMissingCost        = &ValidationError{"Please enter the campaign cost"}
	ErrNoROIInput         = &ValidationError{"Please enter campaign cost and revenue, paste sales data, or upload a file"}
	ErrEnterRevenue       = &ValidationError{"Please enter total revenue"}
	ErrMissingSalesFile   = &ValidationError{"Please upload a sales file"}
	ErrCampaignMatchedOff = &ValidationError{"Campaign-matched ROI is coming soon. The figures below are an illustrative example."}
)
