// Package catalog holds the compiled-in XUPS-MIB alarm catalog.
//
// Alarm identifiers are the arcs of the well-known alarm objects under
// xupsAlarms (1.3.6.1.4.1.534.1.7). Slots 1, 2, 18 and 19 are not alarms
// (they hold the alarm count and the alarm/event tables) and keep an empty
// description so identifiers stay aligned with the MIB.
package catalog

import "fmt"

// entry describes a single well-known alarm.
type entry struct {
	// name is the XUPS-MIB object name.
	name string
	// description is the operator-facing text used in plugin output.
	description string
}

// unknownDescriptionFormat renders the description of an identifier missing from the catalog.
const unknownDescriptionFormat = "Unknown alarm (id %d)"

//nolint:gochecknoglobals // Read-only lookup table, never mutated after init.
var entries = map[int]entry{
	1:  {"", ""},
	2:  {"", ""},
	3:  {"xupsOnBattery", "UPS On Battery"},
	4:  {"xupsLowBattery", "LowBattery"},
	5:  {"xupsUtilityPowerRestored", "UtilityPowerRestored"},
	6:  {"xupsReturnFromLowBattery", "ReturnFromLowBattery"},
	7:  {"xupsOutputOverload", "OutputOverload"},
	8:  {"xupsInternalFailure", "Power Supply Fault"},
	9:  {"xupsBatteryDischarged", "BatteryDischarged"},
	10: {"xupsInverterFailure", "InverterFailure"},
	11: {"xupsOnBypass", "OnBypass"},
	12: {"xupsBypassNotAvailable", "BypassNotAvailable"},
	13: {"xupsOutputOff", "OutputOff"},
	14: {"xupsInputFailure", "Input power Fault"},
	15: {"xupsBuildingAlarm", "BuildingAlarm"},
	16: {"xupsShutdownImminent", "ShutdownImminent"},
	17: {"xupsOnInverter", "OnInverter"},
	18: {"", ""},
	19: {"", ""},
	20: {"xupsBreakerOpen", "BreakerOpen"},
	21: {"xupsAlarmEntryAdded", "AlarmEntryAdded"},
	22: {"xupsAlarmEntryRemoved", "AlarmEntryRemoved"},
	23: {"xupsAlarmBatteryBad", "BatteryNeedService"},
	24: {"xupsOutputOffAsRequested", "OutputOffAsRequested"},
	25: {"xupsDiagnosticTestFailed", "DiagnosticTestFailed"},
	26: {"xupsCommunicationsLost", "CommunicationsLost"},
	27: {"xupsUpsShutdownPending", "UpsShutdownPending"},
	28: {"xupsAlarmTestInProgress", "AlarmTestInProgress"},
	29: {"xupsAmbientTempBad", "Temperature Fault"},
	30: {"xupsLossOfRedundancy", "LossOfRedundancy"},
	31: {"xupsAlarmTempBad", "InternalTempBad"},
	32: {"xupsAlarmChargerFailed", "ChargerFailed"},
	33: {"xupsAlarmFanFailure", "FanFailure"},
	34: {"xupsAlarmFuseFailure", "FuseFailure"},
	35: {"xupsPowerSwitchBad", "PowerSwitchBad"},
	36: {"xupsModuleFailure", "ModuleFailure"},
	37: {"xupsOnAlternatePowerSource", "OnAlternatePowerSource"},
	38: {"xupsAltPowerNotAvailable", "AltPowerNotAvailable"},
	39: {"xupsNoticeCondition", "UPS Fault"},
	40: {"xupsRemoteTempBad", "RemoteTempBad"},
	41: {"xupsRemoteHumidityBad", "RemoteHumidityBad"},
}

// Lookup returns the description for id and whether the catalog knows it.
// Reserved slots are known and have an empty description.
func Lookup(id int) (string, bool) {
	e, ok := entries[id]

	return e.description, ok
}

// Describe returns the description for id, or a non-empty "unknown alarm"
// text when the catalog has no entry for it.
func Describe(id int) string {
	if description, ok := Lookup(id); ok {
		return description
	}

	return fmt.Sprintf(unknownDescriptionFormat, id)
}

// Name returns the XUPS-MIB object name for id, or an empty string.
func Name(id int) string {
	return entries[id].name
}
