package models

// Client is an advertiser account as listed by the analytics API.
type Client struct {
	ClientID      int    `json:"client_id"`
	ClientName    string `json:"client_name"`
	Industry      string `json:"industry"`
	CampaignCount int    `json:"campaign_count"`
}

// CampaignSummary is the per-campaign metric snapshot returned by the
// campaign listing, similar-duration and compare endpoints.
// Every metric is nil when the backend could not compute it (missing data,
// zero denominators); a zero value is a real zero.
type CampaignSummary struct {
	CampaignID             int      `json:"campaign_id"`
	Name                   *string  `json:"name"`
	ClientName             *string  `json:"client_name"`
	Industry               *string  `json:"industry"`
	JobType                *string  `json:"job_type"`
	Status                 *string  `json:"status"`
	TotalPcsMailed         *int     `json:"total_pcs_mailed"`
	MailDate               *string  `json:"mail_date"` // YYYY-MM-DD
	DurationDays           *int     `json:"duration_days"`
	CombinedSocialCTR      *float64 `json:"combined_social_ctr"`
	LeadsPer1000           *float64 `json:"leads_per_1000"`
	TotalSocialClicks      *int     `json:"total_social_clicks"`
	TotalSocialImpressions *int     `json:"total_social_impressions"`
	TotalLeads             *int     `json:"total_leads"`
}

// HealthStatus is the body of the origin-level health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
}

// Upload is an in-memory file destined for a multipart form field.
type Upload struct {
	Filename string
	Data     []byte
}

// Empty reports whether no file has been attached.
func (u *Upload) Empty() bool {
	return u == nil || (u.Filename == "" && len(u.Data) == 0)
}
