package views

import (
	"context"

	"github.com/patrickwarner/campaigninsight/internal/models"
)

// campaignPicker is the client -> campaigns chain shared by every view that
// starts from a client selection. It lives inside a view and uses that
// view's lock.
type campaignPicker struct {
	b   *base
	err *string
	// onClientChange clears the owning view's state below the campaign list.
	// It runs with the view lock held.
	onClientChange func()

	clients          []models.Client
	clientsLoading   bool
	clientID         *int
	campaigns        []models.CampaignSummary
	campaignsLoading bool

	clientsSlot   slot
	campaignsSlot slot
}

// PickerState is the rendered form of a campaignPicker.
type PickerState struct {
	Clients          []models.Client          `json:"clients"`
	ClientsLoading   bool                     `json:"clients_loading"`
	SelectedClientID *int                     `json:"selected_client_id"`
	Campaigns        []models.CampaignSummary `json:"campaigns"`
	CampaignsLoading bool                     `json:"campaigns_loading"`
}

func (p *campaignPicker) loadClients() <-chan struct{} {
	p.b.mu.Lock()
	defer p.b.mu.Unlock()

	p.clients = nil
	p.clientsLoading = true
	return runLoad(p.b, &p.clientsSlot, "clients",
		func(ctx context.Context) ([]models.Client, error) {
			return p.b.api.GetClients(ctx)
		},
		func(clients []models.Client, err error) {
			p.clientsLoading = false
			if err != nil {
				*p.err = errorText(err, msgLoadClients)
				return
			}
			p.clients = clients
		})
}

// selectClient records the client and loads its campaigns. Everything below
// the client is cleared before the fetch starts.
func (p *campaignPicker) selectClient(clientID int) <-chan struct{} {
	p.b.mu.Lock()
	defer p.b.mu.Unlock()

	p.clientID = intRef(clientID)
	p.campaigns = nil
	*p.err = ""
	if p.onClientChange != nil {
		p.onClientChange()
	}

	p.campaignsLoading = true
	return runLoad(p.b, &p.campaignsSlot, "campaigns",
		func(ctx context.Context) ([]models.CampaignSummary, error) {
			return p.b.api.GetCampaignsByClient(ctx, clientID)
		},
		func(campaigns []models.CampaignSummary, err error) {
			p.campaignsLoading = false
			if err != nil {
				*p.err = errorText(err, msgLoadCampaigns)
				return
			}
			p.campaigns = campaigns
		})
}

// findCampaign returns the listed campaign with id. Callers hold the lock.
func (p *campaignPicker) findCampaign(id int) (models.CampaignSummary, bool) {
	for _, c := range p.campaigns {
		if c.CampaignID == id {
			return c, true
		}
	}
	return models.CampaignSummary{}, false
}

func (p *campaignPicker) snapshot() PickerState {
	return PickerState{
		Clients:          cloneSlice(p.clients),
		ClientsLoading:   p.clientsLoading,
		SelectedClientID: cloneInt(p.clientID),
		Campaigns:        cloneSlice(p.campaigns),
		CampaignsLoading: p.campaignsLoading,
	}
}
