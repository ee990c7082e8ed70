package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressValidation(t *testing.T) {
	assert.True(t, IsEVMNetwork(" Ethereum "))
	assert.False(t, IsEVMNetwork("bitcoin"))

	assert.True(t, ValidAddress("ethereum", "0x52908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, ValidAddress("ethereum", "52908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, ValidAddress("base", "0x1234"))
	assert.True(t, ValidAddress("bitcoin", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"))
	assert.False(t, ValidAddress("bitcoin", "bad address"))

	hash := "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
	assert.True(t, ValidTxHash("polygon", hash))
	assert.False(t, ValidTxHash("polygon", hash[:20]))
	assert.False(t, ValidTxHash("polygon", "0xzz"))
	assert.True(t, ValidTxHash("tron", "a1b2c3"))
	assert.False(t, ValidTxHash("tron", ""))

	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7",
		ChecksumAddress("ethereum", "0x52908400098527886e0f7030069857d2e4169ee7"))
	assert.Equal(t, "bc1q", ChecksumAddress("bitcoin", " bc1q "))
}
