package auth_test

import (
	"testing"

	"github.com/unclebandit/mailflow-backend/internal/auth"
	"github.com/unclebandit/mailflow-backend/internal/model"
)

func intPtr(i int) *int { return &i }

func TestCanOwnerActions(t *testing.T) {
	owner := &model.User{ID: 1}

	for _, action := range []auth.Action{auth.ActionView, auth.ActionEdit, auth.ActionDelete, auth.ActionToggleMailing} {
		if !auth.Can(owner, action, intPtr(1)) {
			t.Errorf("expected owner allowed to %s own resource", action)
		}
		if auth.Can(owner, action, intPtr(2)) {
			t.Errorf("expected owner denied %s on foreign resource", action)
		}
		if auth.Can(owner, action, nil) {
			t.Errorf("expected %s denied on ownerless resource", action)
		}
	}
}

func TestCanManagerHoldsEverything(t *testing.T) {
	manager := &model.User{ID: 9, IsManager: true}

	for _, action := range []auth.Action{
		auth.ActionView, auth.ActionEdit, auth.ActionDelete, auth.ActionToggleMailing,
		auth.ActionViewAll, auth.ActionListUsers, auth.ActionBlockUser,
	} {
		if !auth.Can(manager, action, intPtr(1)) {
			t.Errorf("expected manager allowed to %s", action)
		}
		if !auth.Can(manager, action, nil) {
			t.Errorf("expected manager allowed to %s ownerless resource", action)
		}
	}
}

func TestCanRegularUserDeniedAdminActions(t *testing.T) {
	user := &model.User{ID: 1}

	for _, action := range []auth.Action{auth.ActionViewAll, auth.ActionListUsers, auth.ActionBlockUser} {
		if auth.Can(user, action, intPtr(1)) {
			t.Errorf("expected regular user denied %s", action)
		}
	}
}

func TestCanNilActor(t *testing.T) {
	if auth.Can(nil, auth.ActionView, intPtr(1)) {
		t.Error("expected nil actor denied")
	}
}
