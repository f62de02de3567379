package common

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"os"

	"github.com/btcsuite/btcutil/base58"
)

func Encode(data interface{}) ([]byte, error) {
	buff := new(bytes.Buffer)
	encoder := json.NewEncoder(buff)
	err := encoder.Encode(data)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func Decode[T interface{}](bs []byte) (*T, error) {
	buff := new(bytes.Buffer)
	var data T
	buff.Write(bs)
	decoder := json.NewDecoder(buff)
	err := decoder.Decode(&data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func ToHex[T comparable](num T) ([]byte, error) {
	buff := new(bytes.Buffer)
	err := binary.Write(buff, binary.BigEndian, num)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func FromHex[T comparable](hex []byte) (T, error) {
	var num T
	err := binary.Read(bytes.NewBuffer(hex), binary.BigEndian, &num)
	return num, err
}

func ShortId(raw []byte) string {
	return base58.Encode(raw)
}

// RandomId is a base58 name for a node that was not given one.
func RandomId(n int) (string, error) {
	raw := make([]byte, n)
	_, err := rand.Read(raw)
	if err != nil {
		return "", err
	}
	return base58.Encode(raw), nil
}

func ExistFile(name string) bool {
	_, err := os.Stat(name)
	return !os.IsNotExist(err)
}
