// SPDX-License-Identifier: Apache-2.0

package messages

// IMUIndex is the reserved sensor index used to address the singleton IMU
// entity on the mapping-only command bus; it never collides with a real
// sensor slot because sensor indices are assigned from the configuration
// document's positive id space.
const IMUIndex SensorIndex = -2

func NewSetIMUFilterMode(mode IMUFilterMode) Command {
	c := newCommand(IMUIndex, SetIMUFilterMode, MappingProcessor)
	c.Int = int(mode)
	return c
}

func NewSetIMUAccelRangeMax(max float64) Command {
	c := newCommand(IMUIndex, SetIMUAccelRangeMax, MappingProcessor)
	c.Float = max
	return c
}

func NewSetIMUGyroRangeMax(max float64) Command {
	c := newCommand(IMUIndex, SetIMUGyroRangeMax, MappingProcessor)
	c.Float = max
	return c
}

func NewSetIMUCompassRangeMax(max float64) Command {
	c := newCommand(IMUIndex, SetIMUCompassRangeMax, MappingProcessor)
	c.Float = max
	return c
}

func NewSetIMUCompassEnabled(enabled bool) Command {
	c := newCommand(IMUIndex, SetIMUCompassEnabled, MappingProcessor)
	c.Bool = enabled
	return c
}

func NewSetIMUSendingMode(mode SendingMode) Command {
	c := newCommand(IMUIndex, SetIMUSendingMode, MappingProcessor)
	c.SendingMode = mode
	return c
}

func NewSetIMUSendingDeltaTicks(ticks int) Command {
	c := newCommand(IMUIndex, SetIMUSendingDeltaTicks, MappingProcessor)
	c.Int = ticks
	return c
}

func NewSetIMUDataMode(mode IMUDataMode) Command {
	c := newCommand(IMUIndex, SetIMUDataMode, MappingProcessor)
	c.Int = int(mode)
	return c
}

func NewSetIMUAccNormThreshold(threshold float64) Command {
	c := newCommand(IMUIndex, SetIMUAccNormThreshold, MappingProcessor)
	c.Float = threshold
	return c
}

func NewSetIMUEnabled(enabled bool) Command {
	c := newCommand(IMUIndex, SetIMUEnabled, MappingProcessor)
	c.Bool = enabled
	return c
}

// NewSetIMUParameterBinding binds a virtual IMU axis ("yaw", "pitch",
// "roll") to a sensor index, per "parameter" key.
func NewSetIMUParameterBinding(axis string, sensorIndex SensorIndex) Command {
	c := newCommand(sensorIndex, SetIMUParameterBinding, MappingProcessor)
	c.Str = axis
	return c
}
