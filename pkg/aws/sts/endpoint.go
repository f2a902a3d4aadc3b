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
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws/endpoints"
)

// regionalResolver sends STS calls to the endpoint of region rather than the
// global sts.amazonaws.com. Other services and FIPS regions use the default
// resolver.
func regionalResolver(region string) endpoints.Resolver {
	if strings.Contains(region, "fips") {
		return endpoints.DefaultResolver()
	}

	endpoint := endpoints.ResolvedEndpoint{URL: fmt.Sprintf("https://%s", stsHostname(region)), SigningRegion: region}
	return endpoints.ResolverFunc(func(service, r string, opts ...func(*endpoints.Options)) (endpoints.ResolvedEndpoint, error) {
		if service != endpoints.StsServiceID {
			return endpoints.DefaultResolver().EndpointFor(service, r, opts...)
		}
		return endpoint, nil
	})
}

func stsHostname(region string) string {
	switch {
	case strings.HasPrefix(region, "cn-"):
		return fmt.Sprintf("sts.%s.amazonaws.com.cn", region)
	case strings.HasPrefix(region, "us-iso"):
		return fmt.Sprintf("sts.%s.c2s.ic.gov", region)
	default:
		return fmt.Sprintf("sts.%s.amazonaws.com", region)
	}
}
