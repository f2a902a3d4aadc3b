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
package sts

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/prometheus/client_golang/prometheus"
)

// VerifyTimeout bounds a single identity check.
const VerifyTimeout = 5 * time.Second

// Identity is the principal the published credentials belong to.
type Identity struct {
	Account string
	Arn     string
	UserID  string
}

type IdentityGateway interface {
	CallerIdentity(ctx context.Context) (*Identity, error)
}

type DefaultIdentityGateway struct {
	session *session.Session
}

func NewIdentityGateway(cfg *aws.Config) (*DefaultIdentityGateway, error) {
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return &DefaultIdentityGateway{session: sess}, nil
}

func (g *DefaultIdentityGateway) CallerIdentity(ctx context.Context) (*Identity, error) {
	timer := prometheus.NewTimer(callerIdentity)
	defer timer.ObserveDuration()

	svc := sts.New(g.session)
	resp, err := svc.GetCallerIdentityWithContext(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		errorVerifying.Inc()
		return nil, err
	}

	return &Identity{
		Account: aws.StringValue(resp.Account),
		Arn:     aws.StringValue(resp.Arn),
		UserID:  aws.StringValue(resp.UserId),
	}, nil
}
