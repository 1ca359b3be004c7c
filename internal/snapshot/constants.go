// internal/snapshot/constants.go
package snapshot

import "github.com/tamzrod/veeprom/internal/slot"

// Slot snapshot register block layout.
// These values define the export protocol and MUST NOT be configurable.

// ---- REGISTER INDICES ----

// RegPresent holds one bit per slot: set when the slot has a stored value.
const RegPresent = 0

// RegValuesStart is the first per-slot value register, in slot.All() order.
const RegValuesStart = 1

// RegActivePage holds the index (0 or 1) of the active flash page.
const RegActivePage = RegValuesStart + 1 + slot.CustomCount

// RegCRC holds CRC-16/MODBUS over registers RegPresent..RegActivePage.
const RegCRC = RegActivePage + 1

// ---- DEVICE NAME ----

// RegDeviceNameStart is the first register used for the device name.
// Device name is always placed at the END of the block.
const RegDeviceNameStart = RegCRC + 1

// RegDeviceNameSlots is the number of registers reserved for the device name.
const RegDeviceNameSlots = 8

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// RegistersPerBlock is the full block length.
const RegistersPerBlock = RegDeviceNameStart + RegDeviceNameSlots

// LiveRegisters is the length of the part that changes at runtime.
const LiveRegisters = RegCRC + 1
