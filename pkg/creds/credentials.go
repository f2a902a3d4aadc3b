// Copyright 2017 uSwitch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package creds

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Credentials is one set of session credentials issued by the container
// credentials endpoint. A value is never modified once built; the next
// successful fetch replaces it.
type Credentials struct {
	AccessKeyId     string
	SecretAccessKey string
	Token           string
	Expiration      time.Time
}

const timeLayout = "2006-01-02T15:04:05Z"

func NewCredentials(accessKey, secretKey, token string, expiry time.Time) *Credentials {
	return &Credentials{
		AccessKeyId:     accessKey,
		SecretAccessKey: secretKey,
		Token:           token,
		Expiration:      expiry,
	}
}

// LogFields describes the credentials without exposing secrets.
func (c *Credentials) LogFields() log.Fields {
	fields := log.Fields{
		"credentials.access.key": redact(c.AccessKeyId),
	}
	if c.Expiration.IsZero() {
		fields["credentials.expiration"] = "unknown"
	} else {
		fields["credentials.expiration"] = c.Expiration.UTC().Format(timeLayout)
	}
	return fields
}

func redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
