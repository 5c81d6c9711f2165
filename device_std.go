package usb

// GetStringDescriptor fetches and decodes string descriptor idx via
// the reflection-based Descriptor decode path (ParseDescriptor), as
// opposed to GetDescriptor's raw-bytes return.
func (d *Device) GetStringDescriptor(idx uint8) (string, error) {
	raw, err := d.GetDescriptor(DescriptorTypeString, idx, 0)
	if err != nil {
		return "", err
	}
	desc, err := ParseDescriptor(raw)
	if err != nil {
		return "", err
	}
	strDesc := desc.(*StringDescriptor)
	str := strDesc.Data[0 : strDesc.Length-2]
	return string(str), nil
}

// GetDescriptorData fetches a descriptor's raw bytes into a
// caller-sized buffer, for descriptors (like a HID report descriptor)
// whose length is already known from another descriptor rather than
// discovered from the response itself.
func (d *Device) GetDescriptorData(descriptorType DescriptorType, idx, size uint16) ([]byte, error) {
	buff := make([]byte, size)
	_, err := d.Ctrl(RequestDirectionIn, RequestDeviceGetDescriptor, (uint16(descriptorType)<<8)|idx, 0, buff)
	return buff, err
}

func (d *Device) GetAltInterface(interfaceIndex int) (int, error) {
	data := make([]byte, 1)
	_, err := d.Ctrl(RequestDirectionIn|RequestRecipientInterface, RequestInterfaceGetInterface, 0, uint16(interfaceIndex), data)
	return int(data[0]), err
}

func (d *Device) SetAltInterface(interfaceIndex, setting int) error {
	_, err := d.Ctrl(RequestDirectionOut|RequestRecipientInterface, RequestInterfaceSetInterface, uint16(setting), uint16(interfaceIndex), nil)
	return err
}
