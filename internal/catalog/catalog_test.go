package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-station/internal/models"
)

func TestRegistrySizes(t *testing.T) {
	assert.Len(t, EntryConditions, 8)
	assert.Len(t, ExitConditions, 6)
	assert.Len(t, RuleTriggers, 6)
	assert.Len(t, RuleActions, 6)
}

func TestFindExitCondition(t *testing.T) {
	condition, ok := FindExitCondition(ExitTakeProfit)
	require.True(t, ok)
	assert.Equal(t, "Take profit", condition.Label)
	assert.Equal(t, 20.0, condition.Default)

	_, ok = FindExitCondition("no-such-condition")
	assert.False(t, ok)
}

func TestDefaultValue(t *testing.T) {
	assert.Equal(t, 10.0, DefaultValue(ExitStopLoss))
	assert.Equal(t, 24.0, DefaultValue(ExitTimeLimit))
	assert.Equal(t, 0.0, DefaultValue("no-such-condition"))
}

func TestValidateNumericValue(t *testing.T) {
	stopLoss, _ := FindExitCondition(ExitStopLoss)

	assert.NoError(t, stopLoss.ValidateValue(1))
	assert.NoError(t, stopLoss.ValidateValue(50))
	assert.NoError(t, stopLoss.ValidateValue(25.5))
	assert.Error(t, stopLoss.ValidateValue(0.5))
	assert.Error(t, stopLoss.ValidateValue(51))
}

func TestValidateEnumeratedValue(t *testing.T) {
	timeExit, _ := FindExitCondition(ExitTimeLimit)

	assert.NoError(t, timeExit.ValidateValue(1))
	assert.NoError(t, timeExit.ValidateValue(168))
	assert.Error(t, timeExit.ValidateValue(3))
	assert.Error(t, timeExit.ValidateValue(0))
}

func TestEveryDefaultIsValid(t *testing.T) {
	for _, condition := range ExitConditions {
		assert.NoError(t, condition.ValidateValue(condition.Default), "default for %s", condition.ID)
	}
}

func TestValidateExitStates(t *testing.T) {
	config := &models.StrategyConfig{
		AdvancedExitConditions: map[models.ConditionID]models.ExitConditionState{
			ExitTakeProfit: {Enabled: true, Value: 30},
			ExitStopLoss:   {Enabled: false, Value: 999}, // disabled values are not checked
		},
	}
	assert.NoError(t, ValidateExitStates(config))

	config.AdvancedExitConditions[ExitStopLoss] = models.ExitConditionState{Enabled: true, Value: 999}
	assert.Error(t, ValidateExitStates(config))

	config.AdvancedExitConditions = map[models.ConditionID]models.ExitConditionState{
		"imaginary": {Enabled: false},
	}
	assert.Error(t, ValidateExitStates(config))
}
