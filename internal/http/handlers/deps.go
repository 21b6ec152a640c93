package handlers

import (
	"showroom/internal/assist"
	"showroom/internal/services"
)

type Deps struct {
	ShowroomHandler  *ShowroomHandler
	ContactHandler   *ContactHandler
	AdminHandler     *AdminHandler
	AssistantHandler *AssistantHandler
}

func NewDeps(listings *services.ListingService, subs *services.SubmissionService, gateway *assist.Gateway) *Deps {
	return &Deps{
		ShowroomHandler:  &ShowroomHandler{Listings: listings},
		ContactHandler:   &ContactHandler{Subs: subs},
		AdminHandler:     &AdminHandler{Listings: listings, Subs: subs},
		AssistantHandler: &AssistantHandler{Assist: gateway, Listings: listings},
	}
}
