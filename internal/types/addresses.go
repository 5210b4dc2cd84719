package types

// HardwareAddress represents the address of a memory mapped
// hardware register that the SM83 cores or the test machines
// reach through the bus.
type HardwareAddress = uint16

const (
	// SB is the address of the SB hardware register. The SB
	// hardware register is used to transfer data between the
	// CPU and the serial port.
	SB HardwareAddress = 0xFF01
	// SC is the address of the SC hardware register. The SC
	// hardware register is used to control the serial port.
	// Writing 0x81 starts a transfer with the internal clock.
	SC HardwareAddress = 0xFF02
	// IF is the address of the IF hardware register. The IF
	// hardware register is used to request interrupts. Writing a 1
	// to a bit in IF requests an interrupt, and writing a 0 clears
	// the request.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F
	// KEY1 is the address of the KEY1 hardware register. The KEY1
	// hardware register is used to prepare a speed switch. Bit 0
	// arms the switch, which the next STOP instruction performs,
	// and bit 7 reads back the current speed.
	//
	// KEY1 is only used in CGB mode.
	KEY1 HardwareAddress = 0xFF4D
	// IE is the address of the IE hardware register. The IE
	// hardware register is used to enable interrupts, using the
	// same bit layout as IF.
	IE HardwareAddress = 0xFFFF
)
